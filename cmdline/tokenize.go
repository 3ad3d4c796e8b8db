package cmdline

import "strings"

// Command is a tokenized command line.
type Command struct {
	// Executable is the first token. Empty when the input had no tokens.
	Executable string `json:"executable" yaml:"executable"`

	// Args are the remaining tokens in order. Never contains Executable.
	Args []string `json:"args" yaml:"args"`
}

// IsZero reports whether the command has no executable.
func (c Command) IsZero() bool {
	return c.Executable == ""
}

// Tokens returns the executable followed by its arguments.
func (c Command) Tokens() []string {
	if c.IsZero() {
		return nil
	}
	tokens := make([]string, 0, len(c.Args)+1)
	tokens = append(tokens, c.Executable)
	return append(tokens, c.Args...)
}

// Clone returns a copy whose Args slice can be modified independently.
func (c Command) Clone() Command {
	out := Command{Executable: c.Executable}
	if c.Args != nil {
		out.Args = append([]string(nil), c.Args...)
	}
	return out
}

// FromTokens builds a Command from a token list.
func FromTokens(tokens []string) Command {
	if len(tokens) == 0 {
		return Command{}
	}
	return Command{
		Executable: tokens[0],
		Args:       append([]string(nil), tokens[1:]...),
	}
}

// Tokenize splits a command string into an executable and arguments.
//
// Rules:
//   - a backslash before ", ' or \ emits that character literally; any other
//     backslash is kept as-is
//   - a quote opens a quoted run when none is open and closes the run it opened;
//     the other quote character inside a run is literal
//   - spaces outside quotes separate tokens; spaces inside quotes are kept
//
// Escaping a space with a backslash is not supported: `a\ b` yields the
// tokens `a\` and `b`.
func Tokenize(command string) Command {
	return FromTokens(Split(command))
}

// Split returns the raw token list for a command string using the same rules
// as Tokenize.
func Split(command string) []string {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(command)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ch == '\\' && i+1 < len(runes) && isEscapable(runes[i+1]) {
			current.WriteRune(runes[i+1])
			i++
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			switch quote {
			case 0:
				quote = ch
			case ch:
				quote = 0
			default:
				current.WriteRune(ch)
			}
		case ch == ' ' && quote == 0:
			flush()
		default:
			current.WriteRune(ch)
		}
	}
	flush()

	return tokens
}

func isEscapable(r rune) bool {
	return r == '"' || r == '\'' || r == '\\'
}
