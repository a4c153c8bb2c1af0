package deploy

import (
	"errors"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
)

const (
	// ArtifactMode is the mode of an installed launcher: setuid, executable by everyone, readable by the owner only.
	ArtifactMode = os.ModeSetuid | 0o711
	// GroupArtifactMode is [ArtifactMode] restricted to members of the owning group.
	GroupArtifactMode = os.ModeSetuid | 0o710
)

// Owner identifies the account the launcher runs as.
type Owner struct {
	UID, GID int
	// Restricted limits execution to members of GID.
	Restricted bool
}

// Mode returns the mode the launcher is installed with.
func (o Owner) Mode() os.FileMode {
	if o.Restricted {
		return GroupArtifactMode
	}
	return ArtifactMode
}

// LookupOwner resolves a user name or numeric uid to an [Owner].
func LookupOwner(name string) (Owner, error) {
	u, err := user.Lookup(name)
	if err != nil {
		var unknown user.UnknownUserError
		if !errors.As(err, &unknown) {
			return Owner{}, err
		}
		if u, err = user.LookupId(name); err != nil {
			return Owner{}, err
		}
	}

	var o Owner
	if o.UID, err = strconv.Atoi(u.Uid); err != nil {
		return Owner{}, err
	}
	if o.GID, err = strconv.Atoi(u.Gid); err != nil {
		return Owner{}, err
	}
	return o, nil
}

// LookupGroup resolves a group name or numeric gid.
func LookupGroup(name string) (int, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		var unknown user.UnknownGroupError
		if !errors.As(err, &unknown) {
			return -1, err
		}
		if g, err = user.LookupGroupId(name); err != nil {
			return -1, err
		}
	}
	return strconv.Atoi(g.Gid)
}

// Restrict returns o restricted to members of gid.
func (o Owner) Restrict(gid int) Owner {
	o.GID, o.Restricted = gid, true
	return o
}

// Install copies src to dst owned by o with the mode returned by [Owner.Mode].
// dst is replaced atomically, a partially written artifact never appears at dst.
func Install(src, dst string, o Owner) (err error) {
	var in *os.File
	if in, err = os.Open(src); err != nil {
		return err
	}
	defer in.Close()

	var tmp *os.File
	if tmp, err = os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*"); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	// chown clears the setuid bit, so it must happen first
	if err = tmp.Chown(o.UID, o.GID); err != nil {
		return err
	}
	if err = tmp.Chmod(o.Mode()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
