package patch

import "strings"

// Line is one input line presented to a rule, with 1-based numbering.
// Text never includes the line terminator.
type Line struct {
	Number int
	Text   string
}

// Rule pairs a predicate with an action. Rules are evaluated in order per
// line and the first one whose Applies returns true fires; a line matching
// no rule passes through unchanged.
type Rule struct {
	Name    string
	Applies func(Line) bool
	Apply   func(string) string
}

// Transform runs the rule set against one line and reports which rule fired,
// if any.
func Transform(rules []Rule, line Line) (out string, rule string) {
	for _, r := range rules {
		if r.Applies(line) {
			return r.Apply(line.Text), r.Name
		}
	}
	return line.Text, ""
}

// KeepFirst returns a rule that passes the first n lines through unchanged,
// shielding them from any later rule.
func KeepFirst(n int) Rule {
	return Rule{
		Name:    "keep-first",
		Applies: func(l Line) bool { return l.Number <= n },
		Apply:   func(s string) string { return s },
	}
}

// SubstituteOnMatch returns a rule that, on lines containing the given
// substring, replaces every occurrence of old with repl.
func SubstituteOnMatch(contains, old, repl string) Rule {
	return Rule{
		Name:    "substitute",
		Applies: func(l Line) bool { return strings.Contains(l.Text, contains) },
		Apply:   func(s string) string { return strings.ReplaceAll(s, old, repl) },
	}
}

// LegacyRules reproduces the original script's behavior: lines 1-4 are kept
// verbatim, then lines containing "welcome" have "give" replaced with
// "learning". The two concerns stay independent rules so either can be used
// alone.
func LegacyRules() []Rule {
	return []Rule{
		KeepFirst(4),
		SubstituteOnMatch("welcome", "give", "learning"),
	}
}
