package deploy

import "strings"

// Severity classifies a [Finding].
type Severity int

const (
	// OK is a passed check.
	OK Severity = iota
	// Warn is a weakness that does not expose the secret on its own.
	Warn
	// Fail is a deployment that exposes the secret or cannot work.
	Fail
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "ok"
	case Warn:
		return "warn"
	case Fail:
		return "fail"
	default:
		return "invalid"
	}
}

// A Finding is the outcome of a single check.
type Finding struct {
	// Check names the check, e.g. "artifact-setuid".
	Check    string
	Severity Severity
	// Subject is the path the check was performed on.
	Subject string
	Message string
}

func (f Finding) String() string {
	var b strings.Builder
	b.WriteString(f.Severity.String())
	b.WriteString(" ")
	b.WriteString(f.Check)
	if f.Subject != "" {
		b.WriteString(" ")
		b.WriteString(f.Subject)
	}
	b.WriteString(": ")
	b.WriteString(f.Message)
	return b.String()
}

// Report holds findings in the order they were made.
type Report []Finding

// Failed returns whether any finding has severity [Fail].
func (r Report) Failed() bool {
	for _, f := range r {
		if f.Severity == Fail {
			return true
		}
	}
	return false
}

func (r *Report) add(check string, s Severity, subject, message string) {
	*r = append(*r, Finding{check, s, subject, message})
}
