package vfs_test

import (
	"errors"
	"os"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/axeluhl/kostal/internal/vfs"
)

const sampleMountinfo = `15 20 0:3 / /proc rw,nosuid,nodev,noexec,relatime - proc proc rw,hidepid=invisible
16 20 0:15 / /sys rw,relatime - sysfs /sys rw
17 20 0:5 / /dev rw,relatime - devtmpfs udev rw,size=1983516k,nr_inodes=495879,mode=755
20 1 8:4 / / rw,noatime - ext4 /dev/sda4 rw,errors=continue
40 20 8:6 / /home rw,nosuid,nodev,relatime shared:12 - ext4 /dev/sda6 rw
41 20 0:53 / /mnt/with\040space rw,relatime shared:212 master:3 - tmpfs  rw`

func TestLoad(t *testing.T) {
	t.Parallel()

	entries, err := vfs.Load(strings.NewReader(sampleMountinfo))
	if err != nil {
		t.Fatalf("Load: error = %v", err)
	}

	want := []*vfs.MountInfoEntry{
		{15, 20, vfs.DevT{0, 3}, "/", "/proc", "rw,nosuid,nodev,noexec,relatime", []string{}, "proc", "proc", "rw,hidepid=invisible"},
		{16, 20, vfs.DevT{0, 15}, "/", "/sys", "rw,relatime", []string{}, "sysfs", "/sys", "rw"},
		{17, 20, vfs.DevT{0, 5}, "/", "/dev", "rw,relatime", []string{}, "devtmpfs", "udev", "rw,size=1983516k,nr_inodes=495879,mode=755"},
		{20, 1, vfs.DevT{8, 4}, "/", "/", "rw,noatime", []string{}, "ext4", "/dev/sda4", "rw,errors=continue"},
		{40, 20, vfs.DevT{8, 6}, "/", "/home", "rw,nosuid,nodev,relatime", []string{"shared:12"}, "ext4", "/dev/sda6", "rw"},
		{41, 20, vfs.DevT{0, 53}, "/", "/mnt/with space", "rw,relatime", []string{"shared:212", "master:3"}, "tmpfs", "", "rw"},
	}
	if !reflect.DeepEqual(entries, want) {
		for i := range entries {
			t.Logf("entry %d: %s", i, entries[i])
		}
		t.Errorf("Load: unexpected entries")
	}
}

func TestLoadError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		data    string
		wantErr error
		want    string
	}{
		{"count", "21 20 0:53/ /mnt/test rw,relatime - tmpfs  rw",
			&vfs.DecoderError{Op: "parse", Line: 1, Err: vfs.ErrMountInfoFields},
			"parse mountinfo at line 1: unexpected field count"},

		{"sep", "16 20 0:15 / /sys rw,relatime - sysfs /sys rw\n" +
			"21 20 0:53 / /mnt/test rw,relatime shared:212 _ tmpfs  rw",
			&vfs.DecoderError{Op: "parse", Line: 2, Err: vfs.ErrMountInfoSep},
			"parse mountinfo at line 2: bad optional fields separator"},

		{"id", "id 20 0:53 / /mnt/test rw,relatime - tmpfs  rw",
			&vfs.DecoderError{Op: "parse", Line: 1, Err: &strconv.NumError{Func: "Atoi", Num: "id", Err: strconv.ErrSyntax}},
			`parse mountinfo at line 1: numeric field "id" invalid syntax`},

		{"devno", "21 20 053 / /mnt/test rw,relatime - tmpfs  rw",
			&vfs.DecoderError{Op: "parse", Line: 1, Err: vfs.ErrMountInfoDevno},
			"parse mountinfo at line 1: bad maj:min field"},

		{"target", "21 20 0:53 /  rw,relatime - tmpfs  rw",
			&vfs.DecoderError{Op: "parse", Line: 1, Err: vfs.ErrMountInfoEmpty},
			"parse mountinfo at line 1: unexpected empty field"},

		{"fstype", "21 20 0:53 / /mnt/test rw,relatime -   rw",
			&vfs.DecoderError{Op: "parse", Line: 1, Err: vfs.ErrMountInfoEmpty},
			"parse mountinfo at line 1: unexpected empty field"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := vfs.Load(strings.NewReader(tc.data))
			if !reflect.DeepEqual(err, tc.wantErr) {
				t.Errorf("Load: error = %#v, want %#v", err, tc.wantErr)
			}
			if err != nil && err.Error() != tc.want {
				t.Errorf("Error: %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestDecoderErrorIs(t *testing.T) {
	t.Parallel()

	err := &vfs.DecoderError{Op: "scan", Line: 3, Err: unix.EIO}
	if !errors.Is(err, unix.EIO) {
		t.Error("Is: unexpected false")
	}
	if want := "scan mountinfo at line 3: input/output error"; err.Error() != want {
		t.Errorf("Error: %q, want %q", err.Error(), want)
	}
}

func TestEntriesStop(t *testing.T) {
	t.Parallel()

	d := vfs.NewMountInfoDecoder(strings.NewReader(sampleMountinfo))
	var n int
	for range d.Entries() {
		n++
		if n == 2 {
			break
		}
	}
	for ent := range d.Entries() {
		if ent.ID != 17 {
			t.Errorf("Entries: resumed at %d, want 17", ent.ID)
		}
		break
	}
	if err := d.Err(); err != nil {
		t.Errorf("Err: %v", err)
	}
}

func TestFlags(t *testing.T) {
	t.Parallel()

	ent := &vfs.MountInfoEntry{VfsOptstr: "ro,nosuid,nodev,noexec,nosymfollow,noatime,nodiratime,relatime,rw,meow"}
	flags, unmatched := ent.Flags()
	if want := uintptr(unix.MS_RDONLY | unix.MS_NOSUID | unix.MS_NODEV | unix.MS_NOEXEC |
		unix.MS_NOSYMFOLLOW | unix.MS_NOATIME | unix.MS_NODIRATIME | unix.MS_RELATIME); flags != want {
		t.Errorf("Flags: %#x, want %#x", flags, want)
	}
	if !reflect.DeepEqual(unmatched, []string{"meow"}) {
		t.Errorf("Flags: unmatched = %q", unmatched)
	}
}

func TestFsOption(t *testing.T) {
	t.Parallel()

	ent := &vfs.MountInfoEntry{FsOptstr: "rw,hidepid=2,gid=27"}
	testCases := []struct {
		name, want string
		wantOk     bool
	}{
		{"rw", "", true},
		{"hidepid", "2", true},
		{"gid", "27", true},
		{"subset", "", false},
	}
	for _, tc := range testCases {
		if got, ok := ent.FsOption(tc.name); got != tc.want || ok != tc.wantOk {
			t.Errorf("FsOption(%q): %q, %v, want %q, %v", tc.name, got, ok, tc.want, tc.wantOk)
		}
	}
}

func TestUnmangle(t *testing.T) {
	t.Parallel()

	testCases := []struct{ s, want string }{
		{"/mnt/plain", "/mnt/plain"},
		{`/mnt/with\040space`, "/mnt/with space"},
		{`/mnt/tab\011here`, "/mnt/tab\there"},
		{`/mnt/back\134slash`, `/mnt/back\slash`},
		{`/mnt/short\04`, `/mnt/short\04`},
		{`/mnt/invalid\800`, `/mnt/invalid\800`},
		{`/mnt/line\012feed`, "/mnt/line\nfeed"},
		{`/mnt/other\101`, `/mnt/other\101`},
		{`\134040`, `\040`},
		{`trailing\`, `trailing\`},
		{`\040\040`, "  "},
	}
	for _, tc := range testCases {
		if got := vfs.Unmangle(tc.s); got != tc.want {
			t.Errorf("Unmangle(%q): %q, want %q", tc.s, got, tc.want)
		}
	}
}

func TestSelf(t *testing.T) {
	t.Parallel()

	f, err := os.Open(vfs.MountInfoPath)
	if err != nil {
		t.Skipf("cannot open mountinfo: %v", err)
	}
	defer f.Close()

	entries, err := vfs.Load(f)
	if err != nil {
		t.Fatalf("Load: error = %v", err)
	}
	if root := vfs.Covering(entries, "/"); root == nil {
		t.Error("Covering: no mount covers /")
	}
}

func TestEntryString(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"40 20 8:6 / /home rw,nosuid,nodev,relatime shared:12 - ext4 /dev/sda6 rw",
		"16 20 0:15 / /sys rw,relatime - sysfs /sys rw",
	} {
		entries, err := vfs.Load(strings.NewReader(line))
		if err != nil {
			t.Fatalf("Load: error = %v", err)
		}
		if got := entries[0].String(); got != line {
			t.Errorf("String: %q, want %q", got, line)
		}
	}

	t.Run("shared backing array", func(t *testing.T) {
		backing := []string{"shared:1", "master:2"}
		ent := &vfs.MountInfoEntry{Root: "/", Target: "/", VfsOptstr: "rw",
			OptFields: backing[:1], FsType: "tmpfs", Source: "none", FsOptstr: "rw"}
		if got, want := ent.String(), "0 0 0:0 / / rw shared:1 - tmpfs none rw"; got != want {
			t.Errorf("String: %q, want %q", got, want)
		}
		if backing[1] != "master:2" {
			t.Errorf("String: clobbered backing array: %q", backing)
		}
	})
}
