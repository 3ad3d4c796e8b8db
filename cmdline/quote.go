package cmdline

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Quote returns s in a form that Tokenize reads back as a single token.
// Plain words are returned unchanged.
//
// Quoting is delegated to the bash quoter when it produces a bare word or a
// single-quoted string without backslashes. Anything else is double-quoted
// with only " and \ escaped, since Tokenize honors backslash escapes inside
// both quote kinds and does not understand $'...' or \$.
func Quote(s string) string {
	if s == "" {
		return s
	}
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err == nil && !strings.Contains(s, `\`) && (quoted == s || isSingleQuoted(quoted)) {
		return quoted
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// Join renders a command back into a single command line.
// Empty arguments are dropped because Tokenize never produces them.
func Join(c Command) string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, tok := range c.Tokens() {
		if tok == "" {
			continue
		}
		parts = append(parts, Quote(tok))
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return Join(c)
}

func isSingleQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' && !strings.Contains(s[1:len(s)-1], "'")
}
