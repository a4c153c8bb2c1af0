// Package deploy builds, installs and audits the credential-injecting launcher.
package deploy

import (
	"errors"
	"strings"

	"github.com/axeluhl/kostal/internal/launcher"
)

// ErrQuote is returned for a value that cannot be represented in a linker flag string.
var ErrQuote = errors.New("value contains both single and double quotes")

// Values are embedded into the launcher at link time.
type Values struct {
	launcher.Credentials
	// Target is the absolute path of the program the launcher replaces itself with.
	Target string
}

// Validate returns a non-nil error if v would produce a launcher that refuses to run.
func (v Values) Validate() error {
	if err := v.Credentials.Validate(); err != nil {
		return err
	}
	return launcher.CheckTarget(v.Target)
}

// LinkerFlags returns the -ldflags string embedding v into the variables of pkg.
func LinkerFlags(pkg string, v Values) (string, error) {
	if err := v.Validate(); err != nil {
		return "", err
	}

	flags := []string{"-s", "-w"}
	for _, kv := range [...][2]string{
		{"baseURL", v.BaseURL},
		{"password", v.Password},
		{"targetPath", v.Target},
	} {
		arg, err := quote("-X=" + pkg + "." + kv[0] + "=" + kv[1])
		if err != nil {
			return "", err
		}
		flags = append(flags, arg)
	}
	return strings.Join(flags, " "), nil
}

// quote quotes arg the way cmd/go splits flag strings.
func quote(arg string) (string, error) {
	if !strings.ContainsAny(arg, " \t\n\r\"'") {
		return arg, nil
	}
	switch {
	case !strings.ContainsRune(arg, '\''):
		return "'" + arg + "'", nil
	case !strings.ContainsRune(arg, '"'):
		return `"` + arg + `"`, nil
	default:
		return "", ErrQuote
	}
}
