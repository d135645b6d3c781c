package file

import (
	"strconv"
	"strings"
)

// SplitExt splits a filename into base and extension on the last dot:
// "report.tar.gz" -> ("report.tar", "gz"). A name without a dot has an
// empty extension. Any string is accepted.
func SplitExt(filename string) (base, ext string) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return filename, ""
	}
	return filename[:idx], filename[idx+1:]
}

// renderCandidate builds the trial filename for suffix n. n = 0 means no
// suffix at all.
func renderCandidate(base, ext string, n int) string {
	var b strings.Builder
	b.WriteString(base)
	if n > 0 {
		b.WriteByte('(')
		b.WriteString(strconv.Itoa(n))
		b.WriteByte(')')
	}
	if ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// ResolveName returns the filename to persist for desired, given the set of
// filenames the requesting user already owns. A free desired name is
// returned unchanged. On collision the lowest free numeric suffix wins:
// "a.png", "a(1).png", "a(2).png", and so on, so gaps left by deletions are
// filled before the numbering grows past its historical maximum.
//
// Existing names are never parsed apart. A parenthesized digit group that is
// part of the caller-supplied name is plain text: a colliding "test(1).png"
// resolves to "test(1)(1).png", never to "test(2).png". The search
// terminates because the existing set is finite.
func ResolveName(desired string, existing map[string]struct{}) string {
	if _, taken := existing[desired]; !taken {
		return desired
	}

	base, ext := SplitExt(desired)
	for n := 1; ; n++ {
		name := renderCandidate(base, ext, n)
		if _, taken := existing[name]; !taken {
			return name
		}
	}
}

// NameSet builds the membership set consumed by ResolveName from a
// repository listing. Order of the input is irrelevant.
func NameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
