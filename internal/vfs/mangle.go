package vfs

import "strings"

// mangled holds the escapes show_mountinfo uses for path and source fields.
var mangled = [...]struct {
	seq string
	c   byte
}{
	{`\040`, ' '},
	{`\011`, '\t'},
	{`\012`, '\n'},
	{`\134`, '\\'},
}

// Unmangle decodes the escapes the kernel emits in mountinfo fields.
// Any other backslash sequence is kept as is.
func Unmangle(s string) string {
	i := strings.IndexByte(s, '\\')
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
next:
	for ; i < len(s); i++ {
		if s[i] == '\\' {
			for _, m := range mangled {
				if strings.HasPrefix(s[i:], m.seq) {
					b.WriteByte(m.c)
					i += len(m.seq) - 1
					continue next
				}
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
