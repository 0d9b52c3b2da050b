package textmatch

import "strings"

// Group is an ordered set of interchangeable terms.
type Group []string

// DefaultGroups covers the vocabulary the FAQ sheet is usually phrased in.
var DefaultGroups = []Group{
	{"送料", "配送料", "配送料金"},
	{"返品", "返送", "返金"},
	{"支払い", "支払", "決済", "お支払い"},
	{"営業時間", "営業日", "受付時間"},
	{"問い合わせ", "問合せ", "お問い合わせ", "連絡先"},
}

// Expander appends synonym terms to a query so that FAQ rows phrased with a
// different but equivalent word still match. Groups are process-wide,
// read-only configuration injected at construction time.
type Expander struct {
	groups []Group
}

func NewExpander(groups []Group) *Expander {
	return &Expander{groups: groups}
}

// Expand appends, space-separated, every term of each group that has at
// least one member contained in the original text. Group membership is
// tested against the unexpanded input only, so expanding an already
// expanded string never compounds. The original text always remains a
// prefix of the result, and the literal answer text shown to users is
// never built from it.
func (e *Expander) Expand(text string) string {
	if text == "" {
		return text
	}
	expanded := text
	for _, g := range e.groups {
		hit := false
		for _, term := range g {
			if strings.Contains(text, term) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, term := range g {
			if strings.Contains(expanded, term) {
				continue
			}
			expanded += " " + term
		}
	}
	return expanded
}

// ParseGroups turns config entries of the form "a,b,c" into synonym groups.
// Entries with fewer than two usable terms are dropped; a one-term group
// can never expand anything.
func ParseGroups(entries []string) []Group {
	out := make([]Group, 0, len(entries))
	for _, entry := range entries {
		var g Group
		for _, term := range strings.Split(entry, ",") {
			term = strings.TrimSpace(term)
			if term != "" {
				g = append(g, term)
			}
		}
		if len(g) >= 2 {
			out = append(out, g)
		}
	}
	return out
}
