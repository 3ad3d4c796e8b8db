package claude

import (
	"sort"
	"strings"
)

// childEnv builds the environment for one CLI process.
// The overlay replaces base values; exports only fill keys that are still unset.
// base is never modified.
func childEnv(base []string, overlay, exports map[string]string) []string {
	env := make([]string, len(base), len(base)+len(overlay)+len(exports))
	copy(env, base)

	for _, k := range sortedKeys(overlay) {
		env = setEnvVar(env, k, overlay[k])
	}
	for _, k := range sortedKeys(exports) {
		if _, ok := lookupEnvVar(env, k); ok {
			continue
		}
		env = append(env, k+"="+exports[k])
	}
	return env
}

// setEnvVar updates or adds an environment variable in an env slice.
func setEnvVar(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

func lookupEnvVar(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return e[len(prefix):], true
		}
	}
	return "", false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
