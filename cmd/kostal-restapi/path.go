package main

const compPoison = "INVALIDINVALIDINVALIDINVALIDINVALID"

// These are set by the linker.
var (
	baseURL    = compPoison
	password   = compPoison
	targetPath = compPoison
)

// poisoned returns whether any linker-set value was left unset.
func poisoned(v ...string) bool {
	for _, s := range v {
		if s == compPoison || s == "" {
			return true
		}
	}
	return false
}
