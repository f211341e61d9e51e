package prompts

import (
	"fmt"

	"github.com/helmcode/seo-ai/pkg/model"
)

// BuildFixPrompt asks for corrected code for a single issue. unspecified is
// the localized marker used when the issue carries no code snippet.
func BuildFixPrompt(issue model.Issue, domain, unspecified string) string {
	snippet := issue.CodeSnippet
	if snippet == "" {
		snippet = unspecified
	}

	return fmt.Sprintf(`Produce the corrected code for the following SEO issue.

WEBSITE: %s
ISSUE: %s
DETAIL: %s
RECOMMENDATION: %s
PROBLEMATIC CODE SNIPPET: %s

Respond in JSON format: { "explanation": "Technical explanation", "fixedCode": "Corrected code block" }`,
		domain, issue.Title, issue.Description, issue.Recommendation, snippet)
}
