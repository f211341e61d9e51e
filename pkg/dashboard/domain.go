package dashboard

import (
	"strings"
)

// NormalizeDomain trims and lowercases user input and adds an https://
// scheme when none is given. It returns ErrNoDomain for blank input.
func NormalizeDomain(input string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(input))
	if domain == "" {
		return "", ErrNoDomain
	}
	if !strings.HasPrefix(domain, "http") {
		domain = "https://" + domain
	}
	return domain, nil
}
