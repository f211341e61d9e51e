package prompts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/seo-ai/pkg/model"
)

func TestTemplateForEveryModule(t *testing.T) {
	seen := map[string]model.Module{}
	for _, m := range model.Modules() {
		tmpl, err := TemplateFor(m, "https://shop.example")
		require.NoError(t, err, m)
		assert.NotEmpty(t, tmpl)
		assert.Contains(t, tmpl, "https://shop.example")
		assert.NotContains(t, tmpl, "%!", "template %s has a formatting error", m)
		if other, dup := seen[tmpl]; dup {
			t.Errorf("%s and %s share a template", m, other)
		}
		seen[tmpl] = m
	}
	assert.Len(t, seen, 6)
}

func TestTemplateChecklists(t *testing.T) {
	cases := map[model.Module][]string{
		model.ModuleOnPage:    {"meta description", "H1"},
		model.ModuleOffPage:   {"Domain Authority", "toxic backlink ratio 12%"},
		model.ModuleTechnical: {"Core Web Vitals", "redirect chains"},
		model.ModuleContent:   {"duplicate content", "E-E-A-T"},
		model.ModuleBlackHat:  {"Cloaking", "Keyword stuffing"},
		model.ModuleLocal:     {"NAP", "Google Business Profile"},
	}
	for m, wants := range cases {
		tmpl, err := TemplateFor(m, "x.example")
		require.NoError(t, err)
		for _, want := range wants {
			assert.Contains(t, tmpl, want, m)
		}
	}
}

func TestTemplateForUnknownModule(t *testing.T) {
	_, err := TemplateFor(model.Module("SOCIAL"), "x.example")
	assert.True(t, errors.Is(err, model.ErrUnknownModule))
}

func TestSystemInstruction(t *testing.T) {
	assert.Contains(t, SystemInstruction("Turkish"), "Always answer in Turkish.")
}

func TestBuildFixPrompt(t *testing.T) {
	issue := model.Issue{
		Title:          "Missing alt",
		Description:    "Images lack alt text",
		Recommendation: "Add alt",
		CodeSnippet:    `<img src="a.png">`,
	}
	p := BuildFixPrompt(issue, "https://x.example", "Unspecified")
	assert.Contains(t, p, "https://x.example")
	assert.Contains(t, p, "Missing alt")
	assert.Contains(t, p, "Images lack alt text")
	assert.Contains(t, p, "Add alt")
	assert.Contains(t, p, `<img src="a.png">`)
	assert.NotContains(t, p, "Unspecified")

	issue.CodeSnippet = ""
	assert.Contains(t, BuildFixPrompt(issue, "https://x.example", "Unspecified"), "PROBLEMATIC CODE SNIPPET: Unspecified")
}
