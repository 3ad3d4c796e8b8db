// Package model maps short Claude model names to full model identifiers.
//
// The CLI accepts either form, but hosts commonly configure a short family
// name ("opus", "sonnet", "haiku"). FullName expands those; anything it does
// not recognize is passed through unchanged so new identifiers keep working.
//
//	model.FullName("Opus")                     // "claude-opus-4-5-20251101"
//	model.FullName("claude-3-7-sonnet-latest") // unchanged
//	model.NormalizeModelName("claude-sonnet-4-20250514") // model.ModelSonnet
package model
