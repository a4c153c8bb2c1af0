package vfs

import (
	"path"
	"strings"
)

// Covering returns the entry mounted on the longest prefix of name.
// Among entries sharing a mount point the last one wins, as it shadows the others.
// name must be absolute and clean.
func Covering(entries []*MountInfoEntry, name string) *MountInfoEntry {
	var (
		match *MountInfoEntry
		depth = -1
	)
	for _, ent := range entries {
		if !contains(ent.Target, name) {
			continue
		}
		if d := len(ent.Target); d >= depth {
			match, depth = ent, d
		}
	}
	return match
}

// contains returns whether name is target or below it.
func contains(target, name string) bool {
	target = path.Clean(target)
	if target == "/" || target == name {
		return true
	}
	return strings.HasPrefix(name, target+"/")
}
