package analyzer

import (
	"github.com/helmcode/seo-ai/pkg/llm"
	"github.com/helmcode/seo-ai/pkg/model"
)

// AnalysisSchema is the payload shape of a module analysis.
var AnalysisSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"score": {
			Type:        llm.TypeNumber,
			Description: "Overall SEO score between 0 and 100",
			Minimum:     llm.Float(model.MinScore),
			Maximum:     llm.Float(model.MaxScore),
		},
		"summary": {Type: llm.TypeString, Description: "Short summary of the findings (at most 2 sentences)"},
		"issues": {
			Type:  llm.TypeArray,
			Items: issueSchema,
		},
	},
	Required: []string{"score", "summary", "issues"},
}

var issueSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"id":             {Type: llm.TypeString},
		"title":          {Type: llm.TypeString, Description: "Issue title or checkpoint"},
		"description":    {Type: llm.TypeString, Description: "Details of the issue"},
		"severity":       {Type: llm.TypeString, Enum: severityEnum()},
		"recommendation": {Type: llm.TypeString, Description: "How to fix it"},
		"canAutoFix":     {Type: llm.TypeBoolean, Description: "Whether the issue can be fixed automatically with code"},
		"codeSnippet":    {Type: llm.TypeString, Description: "Problematic code snippet (simulated)"},
	},
	Required: []string{"id", "title", "description", "severity", "recommendation", "canAutoFix"},
}

// FixSchema is the payload shape of a fix suggestion.
var FixSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"explanation": {Type: llm.TypeString, Description: "Technical explanation"},
		"fixedCode":   {Type: llm.TypeString, Description: "Corrected code block"},
	},
	Required: []string{"explanation", "fixedCode"},
}

func severityEnum() []string {
	var out []string
	for _, s := range model.Severities() {
		out = append(out, string(s))
	}
	return out
}
