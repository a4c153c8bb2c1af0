// Package vfs reads the mount table of the current process from proc_pid_mountinfo(5).
package vfs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	// MountInfoPath is the mountinfo file of the calling process.
	MountInfoPath = "/proc/self/mountinfo"
)

var (
	ErrMountInfoFields = errors.New("unexpected field count")
	ErrMountInfoEmpty  = errors.New("unexpected empty field")
	ErrMountInfoDevno  = errors.New("bad maj:min field")
	ErrMountInfoSep    = errors.New("bad optional fields separator")
)

// DecoderError is returned by [MountInfoDecoder.Err].
type DecoderError struct {
	Op   string
	Line int
	Err  error
}

func (e *DecoderError) Unwrap() error { return e.Err }
func (e *DecoderError) Error() string {
	var s string

	var numError *strconv.NumError
	switch {
	case errors.As(e.Err, &numError) && numError != nil:
		s = "numeric field " + strconv.Quote(numError.Num) + " " + numError.Err.Error()

	default:
		s = e.Err.Error()
	}

	return e.Op + " mountinfo at line " + strconv.Itoa(e.Line) + ": " + s
}

type (
	// A MountInfoDecoder reads and decodes proc_pid_mountinfo(5) entries from an input stream.
	MountInfoDecoder struct {
		s *bufio.Scanner

		parseErr error
		curLine  int
		complete bool
	}

	// MountInfoEntry represents a proc_pid_mountinfo(5) entry.
	MountInfoEntry struct {
		// mount ID: a unique ID for the mount (may be reused after umount(2)).
		ID int
		// parent ID: the ID of the parent mount (or of self for the root of this mount namespace's mount tree).
		Parent int
		// major:minor: the value of st_dev for files on this filesystem (see stat(2)).
		Devno DevT
		// root: the pathname of the directory in the filesystem which forms the root of this mount.
		Root string
		// mount point: the pathname of the mount point relative to the process's root directory.
		Target string
		// mount options: per-mount options (see mount(2)).
		VfsOptstr string
		// optional fields: zero or more fields of the form "tag[:value]".
		OptFields []string
		// filesystem type: the filesystem type in the form "type[.subtype]".
		FsType string
		// mount source: filesystem-specific information or "none".
		Source string
		// super options: per-superblock options (see mount(2)).
		FsOptstr string
	}

	DevT [2]int
)

// Flags interprets VfsOptstr and returns the resulting flags and unmatched options.
func (e *MountInfoEntry) Flags() (flags uintptr, unmatched []string) {
	for _, s := range strings.Split(e.VfsOptstr, ",") {
		switch s {
		case "rw":
		case "ro":
			flags |= unix.MS_RDONLY
		case "nosuid":
			flags |= unix.MS_NOSUID
		case "nodev":
			flags |= unix.MS_NODEV
		case "noexec":
			flags |= unix.MS_NOEXEC
		case "nosymfollow":
			flags |= unix.MS_NOSYMFOLLOW
		case "noatime":
			flags |= unix.MS_NOATIME
		case "nodiratime":
			flags |= unix.MS_NODIRATIME
		case "relatime":
			flags |= unix.MS_RELATIME
		default:
			unmatched = append(unmatched, s)
		}
	}
	return
}

// FsOption looks up a super option by name and returns its value.
// Options without a value return the empty string.
func (e *MountInfoEntry) FsOption(name string) (value string, ok bool) {
	for _, s := range strings.Split(e.FsOptstr, ",") {
		if k, v, _ := strings.Cut(s, "="); k == name {
			return v, true
		}
	}
	return "", false
}

func (e *MountInfoEntry) String() string {
	return fmt.Sprintf("%d %d %d:%d %s %s %s %s %s %s %s",
		e.ID, e.Parent, e.Devno[0], e.Devno[1], e.Root, e.Target, e.VfsOptstr,
		strings.Join(slices.Concat(e.OptFields, []string{"-"}), " "), e.FsType, e.Source, e.FsOptstr)
}

// NewMountInfoDecoder returns a new decoder that reads from r.
func NewMountInfoDecoder(r io.Reader) *MountInfoDecoder {
	return &MountInfoDecoder{s: bufio.NewScanner(r)}
}

// Entries returns an iterator over the remaining mountinfo entries.
// Decoding stops at the first malformed entry, see Err.
func (d *MountInfoDecoder) Entries() iter.Seq[*MountInfoEntry] {
	return func(yield func(*MountInfoEntry) bool) {
		for !d.complete {
			if !d.s.Scan() {
				d.complete = true
				return
			}
			d.curLine++

			ent := new(MountInfoEntry)
			if err := parseMountInfoLine(d.s.Text(), ent); err != nil {
				d.parseErr = err
				d.complete = true
				return
			}
			if !yield(ent) {
				return
			}
		}
	}
}

// Err returns the first error encountered while decoding.
func (d *MountInfoDecoder) Err() error {
	if err := d.s.Err(); err != nil {
		return &DecoderError{"scan", d.curLine, err}
	}
	if d.parseErr != nil {
		return &DecoderError{"parse", d.curLine, d.parseErr}
	}
	return nil
}

// Load decodes all entries of r.
func Load(r io.Reader) ([]*MountInfoEntry, error) {
	d := NewMountInfoDecoder(r)
	var entries []*MountInfoEntry
	for ent := range d.Entries() {
		entries = append(entries, ent)
	}
	return entries, d.Err()
}

func parseMountInfoLine(s string, ent *MountInfoEntry) error {
	// prevent proceeding with misaligned fields due to optional fields
	f := strings.Split(s, " ")
	if len(f) < 10 {
		return ErrMountInfoFields
	}

	// 36 35 98:0 /mnt1 /mnt2 rw,noatime master:1 - ext3 /dev/root rw,errors=continue
	// (1)(2)(3)   (4)   (5)      (6)      (7)   (8) (9)   (10)         (11)

	var err error
	if ent.ID, err = strconv.Atoi(f[0]); err != nil {
		return err
	}
	if ent.Parent, err = strconv.Atoi(f[1]); err != nil {
		return err
	}

	if major, minor, ok := strings.Cut(f[2], ":"); !ok {
		return ErrMountInfoDevno
	} else if ent.Devno[0], err = strconv.Atoi(major); err != nil {
		return err
	} else if ent.Devno[1], err = strconv.Atoi(minor); err != nil {
		return err
	}

	if ent.Root = Unmangle(f[3]); ent.Root == "" {
		return ErrMountInfoEmpty
	}
	if ent.Target = Unmangle(f[4]); ent.Target == "" {
		return ErrMountInfoEmpty
	}
	if ent.VfsOptstr = Unmangle(f[5]); ent.VfsOptstr == "" {
		return ErrMountInfoEmpty
	}

	// optional fields, terminated by " - "
	i := len(f) - 4
	ent.OptFields = f[6:i:i]
	if f[i] != "-" {
		return ErrMountInfoSep
	}
	i++

	if ent.FsType = Unmangle(f[i]); ent.FsType == "" {
		return ErrMountInfoEmpty
	}
	i++

	// source may be empty
	ent.Source = Unmangle(f[i])
	i++

	ent.FsOptstr = Unmangle(f[i])
	return nil
}
