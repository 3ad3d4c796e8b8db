package model

import (
	"sort"
	"strings"
)

// ModelName represents a normalized model family name.
type ModelName string

// Claude model family constants.
const (
	ModelOpus   ModelName = "opus"
	ModelSonnet ModelName = "sonnet"
	ModelHaiku  ModelName = "haiku"
)

// fullNames maps each family alias to the identifier passed to the CLI.
var fullNames = map[ModelName]string{
	ModelOpus:   "claude-opus-4-5-20251101",
	ModelSonnet: "claude-sonnet-4-20250514",
	ModelHaiku:  "claude-3-5-haiku-20241022",
}

// FullName resolves a short model name to its full identifier.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unknown names are returned unchanged.
func FullName(name string) string {
	key := ModelName(strings.ToLower(strings.TrimSpace(name)))
	if full, ok := fullNames[key]; ok {
		return full
	}
	return name
}

// IsAlias reports whether name is a built-in short name.
func IsAlias(name string) bool {
	_, ok := fullNames[ModelName(strings.ToLower(strings.TrimSpace(name)))]
	return ok
}

// Aliases returns the built-in short names in sorted order.
func Aliases() []ModelName {
	names := make([]ModelName, 0, len(fullNames))
	for name := range fullNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// NormalizeModelName converts a full model identifier to its family alias.
// For example, "claude-sonnet-4-20250514" becomes "sonnet" and
// "claude-opus-4-5-20251101" becomes "opus".
// If the name is already a family alias or doesn't match any known pattern,
// it is returned as-is.
func NormalizeModelName(name string) ModelName {
	switch ModelName(name) {
	case ModelOpus, ModelSonnet, ModelHaiku:
		return ModelName(name)
	}
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "opus"):
		return ModelOpus
	case strings.Contains(lower, "sonnet"):
		return ModelSonnet
	case strings.Contains(lower, "haiku"):
		return ModelHaiku
	}
	return ModelName(name)
}
