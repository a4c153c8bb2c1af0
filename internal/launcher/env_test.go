package launcher_test

import (
	"reflect"
	"testing"

	"github.com/axeluhl/kostal/internal/launcher"
)

func TestEnviron(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		env  []string
		want []string
	}{
		{"nil", nil, []string{"PATH=" + launcher.SafePath}},

		{"filtered", []string{
			"PATH=/home/user/bin:/usr/bin",
			"PYTHONPATH=/tmp/evil",
			"PYTHONSTARTUP=/tmp/evil.py",
			"LD_PRELOAD=/tmp/evil.so",
			"HOME=/home/user",
			"TERM=xterm-256color",
			"LANG=de_DE.UTF-8",
			"LC_ALL=C.UTF-8",
			"TZ=Europe/Berlin",
		}, []string{
			"LANG=de_DE.UTF-8",
			"LC_ALL=C.UTF-8",
			"PATH=" + launcher.SafePath,
			"TERM=xterm-256color",
			"TZ=Europe/Berlin",
		}},

		{"duplicate first wins", []string{
			"TERM=dumb",
			"TERM=xterm",
		}, []string{
			"PATH=" + launcher.SafePath,
			"TERM=dumb",
		}},

		{"malformed", []string{
			"TERM",
			"=xterm",
			"LANGUAGE=de",
		}, []string{
			"LANGUAGE=de",
			"PATH=" + launcher.SafePath,
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := launcher.Environ(tc.env); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Environ: %q, want %q", got, tc.want)
			}
		})
	}
}
