// Package stub provides function call level stubbing and validation
// for system calls that are impossible to check otherwise.
package stub

import (
	"errors"
	"reflect"
	"slices"
	"strconv"
	"testing"
)

// this should prevent stub from being inadvertently imported outside tests
var guarded = func() bool {
	if !testing.Testing() {
		panic("stub imported while not in a test")
	}
	return true
}()

// ErrCheck is returned by [Call.Error] when an argument did not match.
var ErrCheck = errors.New("one or more arguments did not match")

// Fault is an error returned from a stubbed call. Faults are comparable,
// so [errors.Is] matches only a Fault with the same value.
type Fault int

func (f Fault) Error() string { return "fault " + strconv.Itoa(int(f)) + " injected by stub" }

// ExpectArgs is an array primarily for storing expected function arguments.
// Its actual use is defined by the implementation.
type ExpectArgs = [5]any

// A Call holds expected arguments of a function call and its outcome.
type Call struct {
	// Name is the function Name of this call.
	Name string
	// Args are the expected arguments of this Call.
	Args ExpectArgs
	// Ret is the return value of this Call.
	Ret any
	// Err is the returned error of this Call.
	Err error
}

// Error returns [Call.Err] if all arguments are true, or [ErrCheck] otherwise.
func (c *Call) Error(ok ...bool) error {
	if !slices.Contains(ok, false) {
		return c.Err
	}
	return ErrCheck
}

// A Stub holds a track of expected calls and the position within it.
type Stub struct {
	testing.TB

	want []Call
	pos  int
}

// New creates a [Stub] expecting calls in the order of want.
func New(tb testing.TB, want []Call) *Stub { return &Stub{TB: tb, want: want} }

// Pos returns the current position of [Stub] in its expected calls.
func (s *Stub) Pos() int { return s.pos }

// Len returns the number of expected calls.
func (s *Stub) Len() int { return len(s.want) }

// Incomplete returns whether not all expected calls were made.
func (s *Stub) Incomplete() bool { return s.pos != len(s.want) }

// Expects checks the name of and returns the current [Call] and advances pos.
func (s *Stub) Expects(name string) *Call {
	s.Helper()

	if len(s.want) == s.pos {
		s.Fatalf("Expects: func = %s, advancing beyond expected calls", name)
	}
	expect := &s.want[s.pos]
	if name != expect.Name {
		s.Fatalf("Expects: func = %s, want %s", name, expect.Name)
	}
	s.pos++
	return expect
}

// CheckArg checks an argument comparable with the == operator. Avoid using this with pointers.
func CheckArg[T comparable](s *Stub, arg string, got T, n int) bool {
	s.Helper()

	pos := s.pos - 1
	if pos < 0 || pos >= len(s.want) {
		panic("invalid call to CheckArg")
	}
	expect := s.want[pos]
	want, ok := expect.Args[n].(T)
	if !ok || got != want {
		s.Errorf("%s: %s = %#v, want %#v (%d)", expect.Name, arg, got, expect.Args[n], pos)
		return false
	}
	return true
}

// CheckArgReflect checks an argument of any type.
func CheckArgReflect(s *Stub, arg string, got any, n int) bool {
	s.Helper()

	pos := s.pos - 1
	if pos < 0 || pos >= len(s.want) {
		panic("invalid call to CheckArgReflect")
	}
	expect := s.want[pos]
	want := expect.Args[n]
	if !reflect.DeepEqual(got, want) {
		s.Errorf("%s: %s = %#v, want %#v (%d)", expect.Name, arg, got, want, pos)
		return false
	}
	return true
}
