package prompts

import (
	"fmt"

	"github.com/helmcode/seo-ai/pkg/model"
)

// SystemInstruction frames every request: the model plays a crawler that
// never actually fetches the site.
func SystemInstruction(language string) string {
	return fmt.Sprintf(`You are "seo-ai", a world-class senior SEO audit bot.
Your task is to analyze the DOMAIN the user enters as if you were a real-time crawler.
Even though you cannot actually reach the site, you know its likely industry, structure and the common SEO mistakes of such sites, so you must produce a highly realistic, specific and technical simulated report.

Rules:
1. Always answer in %s.
2. Findings must be specific ("The home page uses two H1 tags: 'Welcome' and 'Our Services'"), never generic ("a meta tag may be missing").
3. Produce scenarios that fit the domain (e-commerce, blog, corporate, ...).
4. Fill "codeSnippet" fields with plausible HTML/CSS/JS that looks taken from the site.
5. The user only enters a domain; behave as if you fetched the HTML, crawled the links and inspected the server responses.`, language)
}

var templates = map[model.Module]string{
	model.ModuleOnPage: `ENTERED DOMAIN: %s

TASK: Simulate a comprehensive "On-Page SEO" audit for this website.

CHECKLIST:
- Title and meta description optimization.
- H1, H2, H3 hierarchy.
- Image ALT attributes.
- URL structure (friendly URLs).
- Internal linking strategy.
- Semantic HTML usage (header, nav, main, footer).

Report the likely critical and medium-level errors for this domain as if you had detected them.`,

	model.ModuleOffPage: `ENTERED DOMAIN: %s

TASK: Simulate an "Off-Page SEO" and backlink profile analysis for this website.

CHECKLIST:
- Estimated Domain Authority (DA) and Page Authority (PA).
- Backlink count and quality (spam link risk).
- Anchor text diversity.
- Social media signals.
- Brand awareness.

Produce a report with realistic figures (for example "toxic backlink ratio 12%%").`,

	model.ModuleTechnical: `ENTERED DOMAIN: %s

TASK: Simulate an in-depth "Technical SEO" audit for this website.

CHECKLIST:
- Page load speed (Core Web Vitals - LCP, CLS, FID).
- Mobile friendliness and responsive design errors.
- SSL/HTTPS configuration.
- Robots.txt and Sitemap.xml status.
- Canonical tag errors.
- 404 pages and redirect chains.
- JavaScript rendering issues.`,

	model.ModuleContent: `ENTERED DOMAIN: %s

TASK: Analyze the content quality of this site ("Content SEO").

CHECKLIST:
- Content originality (duplicate content risk).
- Keyword cannibalization.
- Content length and depth (thin content).
- Readability score.
- E-E-A-T (Experience, Expertise, Authoritativeness, Trustworthiness) signals.
- User intent alignment.`,

	model.ModuleBlackHat: `ENTERED DOMAIN: %s

TASK: Investigate like a detective whether this site uses "Black Hat SEO" or spam techniques.

CHECKLIST:
- Hidden text or links.
- Cloaking (showing different content to users and bots).
- Keyword stuffing.
- Links coming from link farms.
- Automatically generated content (spammy AI content).
- Malware signals.`,

	model.ModuleLocal: `ENTERED DOMAIN: %s

TASK: Perform a "Local SEO" analysis for this business/site.

CHECKLIST:
- Google Business Profile optimization status.
- NAP (Name, Address, Phone) consistency.
- Use of local keywords (city/region names).
- LocalBusiness Schema.org markup.
- Local backlinks.
- Customer reviews and response rates.`,
}

// TemplateFor returns the task prompt of a module with the domain filled in.
func TemplateFor(module model.Module, domain string) (string, error) {
	tmpl, ok := templates[module]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrUnknownModule, module)
	}
	return fmt.Sprintf(tmpl, domain), nil
}
