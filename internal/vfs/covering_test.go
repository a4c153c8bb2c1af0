package vfs_test

import (
	"strings"
	"testing"

	"github.com/axeluhl/kostal/internal/vfs"
)

func TestCovering(t *testing.T) {
	t.Parallel()

	entries, err := vfs.Load(strings.NewReader(sampleMountinfo + `
42 40 8:7 / /home rw,relatime shared:13 - ext4 /dev/sda7 rw`))
	if err != nil {
		t.Fatalf("Load: error = %v", err)
	}

	testCases := []struct {
		name   string
		wantID int
	}{
		{"/", 20},
		{"/usr/local/bin/kostal-restapi", 20},
		{"/proc", 15},
		{"/proc/1/cmdline", 15},
		{"/procfs", 20},
		{"/home/user/bin/kostal-restapi", 42},
		{"/mnt/with space/x", 41},
		{"/mnt/with", 20},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := vfs.Covering(entries, tc.name)
			if got == nil {
				t.Fatalf("Covering: nil, want %d", tc.wantID)
			}
			if got.ID != tc.wantID {
				t.Errorf("Covering: %d, want %d", got.ID, tc.wantID)
			}
		})
	}

	if got := vfs.Covering(nil, "/"); got != nil {
		t.Errorf("Covering: %v, want nil", got)
	}
}
