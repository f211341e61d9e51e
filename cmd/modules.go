package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/helmcode/seo-ai/pkg/config"
	"github.com/helmcode/seo-ai/pkg/formatter"
	"github.com/helmcode/seo-ai/pkg/locale"
)

var (
	modulesOutputFormat string
	modulesLanguage     string
)

func NewModulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List the analysis modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			lang := cfg.Locale()
			if modulesLanguage != "" {
				if lang, err = locale.Parse(modulesLanguage); err != nil {
					return err
				}
			}
			return formatter.DisplayModules(os.Stdout, lang.Messages(), modulesOutputFormat)
		},
	}
	cmd.Flags().StringVarP(&modulesOutputFormat, "output", "o", "human", "Output format (human, json, yaml)")
	cmd.Flags().StringVar(&modulesLanguage, "language", "", "Language of module titles (en, tr)")
	return cmd
}
