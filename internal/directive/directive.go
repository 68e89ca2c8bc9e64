// Package directive extracts game-engine directives (<Name(a,b)>) and brace
// placeholders ({NAME}) from a single line of script text.
package directive

import (
	"regexp"
	"strings"
)

// Occurrence is one directive found on a line.
type Occurrence struct {
	// Name is the directive name with any argument list stripped.
	Name string
	// Declared is the number of comma-separated parameter slots written.
	Declared int
	// Filled is how many of those slots hold non-blank content.
	Filled int
}

// Slots holds the parameter counts of one occurrence of a named directive.
type Slots struct {
	Declared int
	Filled   int
}

// Group is every occurrence of one directive name on a line, in order.
type Group struct {
	Name  string
	Slots []Slots
}

var (
	tagPattern         = regexp.MustCompile(`<([^>]+)>`)
	placeholderPattern = regexp.MustCompile(`\{[^}]+\}`)
)

// Extract returns the directives on a line from left to right.
// Unterminated brackets produce no match.
func Extract(line string) []Occurrence {
	matches := tagPattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]Occurrence, 0, len(matches))
	for _, m := range matches {
		out = append(out, parseToken(m[1]))
	}
	return out
}

// parseToken interprets the text between '<' and '>'.
func parseToken(token string) Occurrence {
	occ := Occurrence{Name: strings.TrimSpace(token)}

	open := strings.Index(token, "(")
	if open < 0 {
		return occ
	}
	occ.Name = strings.TrimSpace(token[:open])

	closing := strings.LastIndex(token, ")")
	if closing <= open {
		return occ
	}

	inner := strings.TrimSpace(token[open+1 : closing])
	if inner == "" {
		return occ
	}

	for _, p := range strings.Split(inner, ",") {
		occ.Declared++
		if strings.TrimSpace(p) != "" {
			occ.Filled++
		}
	}
	return occ
}

// Placeholders returns the brace placeholders on a line verbatim, braces
// included, from left to right.
func Placeholders(line string) []string {
	return placeholderPattern.FindAllString(line, -1)
}

// GroupByName groups occurrences by name. Groups are ordered by first
// appearance and each group keeps left-to-right occurrence order.
func GroupByName(occs []Occurrence) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, o := range occs {
		i, ok := index[o.Name]
		if !ok {
			i = len(groups)
			index[o.Name] = i
			groups = append(groups, Group{Name: o.Name})
		}
		groups[i].Slots = append(groups[i].Slots, Slots{Declared: o.Declared, Filled: o.Filled})
	}
	return groups
}

// Subtract returns the multiset difference a − b. An element present n times
// in a and m < n times in b leaves n−m instances. Residuals keep the order in
// which they appear in a.
func Subtract(a, b []string) []string {
	budget := make(map[string]int, len(b))
	for _, s := range b {
		budget[s]++
	}

	var out []string
	for _, s := range a {
		if budget[s] > 0 {
			budget[s]--
			continue
		}
		out = append(out, s)
	}
	return out
}
