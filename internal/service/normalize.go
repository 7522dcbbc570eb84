package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalizer applies the configured text normalization policy. The policy
// is uniform: usernames, song titles, artists, genres and playlist names
// are all normalized the same way. Email addresses are always trimmed and
// lowercased, independent of the policy.
type Normalizer struct {
	titleCase bool
}

// NewNormalizer creates a Normalizer. When titleCase is true, names are
// converted to title case after trimming.
func NewNormalizer(titleCase bool) *Normalizer {
	return &Normalizer{titleCase: titleCase}
}

// Name normalizes a display name. A fresh Caser per call: cases.Caser is
// stateful and not safe for concurrent use.
func (n *Normalizer) Name(s string) string {
	s = strings.TrimSpace(s)
	if n.titleCase {
		s = cases.Title(language.English).String(s)
	}
	return s
}

// Email normalizes an email address.
func (n *Normalizer) Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
