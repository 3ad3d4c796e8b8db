// Package cmdline splits shell-style command strings into an executable and
// its arguments, and renders argument lists back into command lines.
//
// The tokenizer is intentionally small: it understands single and double
// quotes and backslash escapes of quote and backslash characters only. It is
// not a shell parser; no variable expansion, globbing or operators.
//
//	cmd := cmdline.Tokenize(`"/opt/claude code/bin/claude" --model opus`)
//	// cmd.Executable == "/opt/claude code/bin/claude"
//	// cmd.Args == []string{"--model", "opus"}
package cmdline
