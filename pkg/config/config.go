// Package config loads seo-ai settings from an optional YAML file and the
// environment. Command-line flags are applied by the caller before Resolve.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/helmcode/seo-ai/pkg/dashboard"
	"github.com/helmcode/seo-ai/pkg/llm"
	"github.com/helmcode/seo-ai/pkg/locale"
)

var ErrMissingAPIKey = errors.New("no API key configured")

type Config struct {
	LLM      LLM      `yaml:"llm"`
	Analysis Analysis `yaml:"analysis"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type LLM struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

type Analysis struct {
	Language  string        `yaml:"language"`
	StepDelay time.Duration `yaml:"step_delay"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Debug bool `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		LLM:      LLM{Timeout: llm.DefaultTimeout},
		Analysis: Analysis{Language: string(locale.Default), StepDelay: dashboard.DefaultStepDelay},
		Server:   Server{Addr: ":8080"},
	}
}

// DefaultPath is ~/.config/seo-ai/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "seo-ai", "config.yaml"), nil
}

// Load reads path over the defaults and applies environment overrides. An
// empty path means DefaultPath, which may be absent; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SEO_AI_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("SEO_AI_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("SEO_AI_LANGUAGE"); v != "" {
		c.Analysis.Language = v
	}
}

// apiKeyEnv lists the variables checked per provider, first match wins.
var apiKeyEnv = map[llm.Provider][]string{
	llm.ProviderGemini: {"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"},
	llm.ProviderOpenAI: {"OPENAI_API_KEY"},
	llm.ProviderClaude: {"ANTHROPIC_API_KEY"},
}

// Resolve picks a provider when none is set (the first provider with a key
// in the environment, else gemini), fills the API key from the environment
// and validates the result.
func (c *Config) Resolve() error {
	if c.LLM.Provider == "" {
		c.LLM.Provider = string(detectProvider())
	}
	provider, err := llm.ParseProvider(c.LLM.Provider)
	if err != nil {
		return err
	}
	c.LLM.Provider = string(provider)

	if key := envKey(provider); key != "" {
		c.LLM.APIKey = key
	}
	return c.Validate()
}

func detectProvider() llm.Provider {
	for _, p := range llm.GetAvailableProviders() {
		if envKey(p) != "" {
			return p
		}
	}
	return llm.ProviderGemini
}

func envKey(p llm.Provider) string {
	for _, name := range apiKeyEnv[p] {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func (c *Config) Validate() error {
	if _, err := llm.ParseProvider(c.LLM.Provider); err != nil {
		return err
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w for provider %s: set %v or llm.api_key", ErrMissingAPIKey, c.LLM.Provider, apiKeyEnv[llm.Provider(c.LLM.Provider)])
	}
	if _, err := locale.Parse(c.Analysis.Language); err != nil {
		return err
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.Analysis.StepDelay < 0 {
		return fmt.Errorf("analysis.step_delay must not be negative, got %s", c.Analysis.StepDelay)
	}
	return nil
}

// Locale returns the validated analysis language.
func (c *Config) Locale() locale.Locale {
	l, err := locale.Parse(c.Analysis.Language)
	if err != nil {
		return locale.Default
	}
	return l
}

// LLMOptions returns the factory options for the configured provider.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{APIKey: c.LLM.APIKey, Model: c.LLM.Model, BaseURL: c.LLM.BaseURL}
}
