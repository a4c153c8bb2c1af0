// Package launcher replaces the current process with a target program,
// passing it credentials embedded at build time ahead of the caller's arguments.
package launcher

import (
	"errors"
	"net/url"
	"path"
	"slices"
)

const (
	// FlagBaseURL precedes the embedded base URL in the argument vector.
	FlagBaseURL = "--baseurl"
	// FlagPassword precedes the embedded password in the argument vector.
	FlagPassword = "--password"

	// prefixLen is the number of injected arguments ahead of caller arguments.
	prefixLen = 4
)

var (
	ErrBaseURL  = errors.New("base URL must be an absolute http or https URL")
	ErrPassword = errors.New("password must not be empty")
	ErrTarget   = errors.New("target must be an absolute path")
)

// Credentials are the values injected ahead of every forwarded argument.
type Credentials struct {
	BaseURL  string
	Password string
}

// Validate returns a non-nil error if c cannot be handed to the target.
func (c Credentials) Validate() error {
	if u, err := url.Parse(c.BaseURL); err != nil ||
		(u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrBaseURL
	}
	if c.Password == "" {
		return ErrPassword
	}
	return nil
}

// CheckTarget returns a non-nil error if target cannot be executed from a setuid context.
func CheckTarget(target string) error {
	if target == "" || !path.IsAbs(target) || path.Clean(target) != target {
		return ErrTarget
	}
	return nil
}

// Args returns the arguments passed to the target after its own name:
// the embedded flags followed by args in their original order.
func Args(c Credentials, args []string) []string {
	v := make([]string, 0, prefixLen+len(args))
	v = append(v, FlagBaseURL, c.BaseURL, FlagPassword, c.Password)
	return append(v, args...)
}

// Argv returns the complete argument vector of target, including argv[0].
func Argv(target string, c Credentials, args []string) []string {
	return slices.Insert(Args(c, args), 0, target)
}
