package launcher

import (
	"slices"
	"strings"
)

// SafePath is the value of PATH in the environment of the target.
const SafePath = "/usr/local/bin:/usr/bin:/bin"

// keepEnv are variables passed through to the target unchanged.
var keepEnv = []string{"TERM", "TZ", "LANG", "LANGUAGE"}

// Environ returns the environment of the target derived from env.
// Only locale and terminal variables survive, PATH is replaced by [SafePath].
// The first occurrence of a variable wins and the result is sorted.
func Environ(env []string) []string {
	seen := make(map[string]struct{}, len(env))
	out := make([]string, 0, len(keepEnv)+1)

	out = append(out, "PATH="+SafePath)
	seen["PATH"] = struct{}{}

	for _, kv := range env {
		k, _, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		if !slices.Contains(keepEnv, k) && !strings.HasPrefix(k, "LC_") {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, kv)
	}

	slices.Sort(out)
	return out
}
