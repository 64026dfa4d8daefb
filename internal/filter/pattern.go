package filter

import (
	"regexp"
	"strings"
)

// compiledPattern is an rsync-style glob turned into a regular expression
// over slash-separated relative paths.
//
//   - "*" matches within one segment, "?" one non-slash byte
//   - "**" matches across segments; "**/" also matches nothing
//   - "[...]" and "[!...]" are character classes
//   - a leading "/" or any inner "/" anchors the pattern at the copy root
//   - a trailing "/" restricts the pattern to directories
type compiledPattern struct {
	re       *regexp.Regexp
	original string
	anchored bool
	dirOnly  bool
}

func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{original: pattern}

	body, dirOnly := strings.CutSuffix(pattern, "/")
	cp.dirOnly = dirOnly

	if rest, ok := strings.CutPrefix(body, "/"); ok {
		body = rest
		cp.anchored = true
	} else {
		cp.anchored = strings.Contains(body, "/")
	}

	prefix := "(^|/)"
	if cp.anchored {
		prefix = "^"
	}
	re, err := regexp.Compile(prefix + globToRegex(body) + "$")
	if err != nil {
		return nil, err
	}
	cp.re = re
	return cp, nil
}

func (cp *compiledPattern) match(relPath string, isDir bool) bool {
	if cp.dirOnly && !isDir {
		return false
	}
	return cp.re.MatchString(relPath)
}

func (cp *compiledPattern) String() string {
	return cp.original
}

// globToRegex translates the glob syntax described on compiledPattern.
// Everything else is matched literally.
func globToRegex(glob string) string {
	var b strings.Builder
	for i := 0; i < len(glob); {
		switch c := glob[i]; c {
		case '*':
			switch {
			case strings.HasPrefix(glob[i:], "**/"):
				b.WriteString("(.*/)?")
				i += 3
			case strings.HasPrefix(glob[i:], "**"):
				b.WriteString(".*")
				i += 2
			default:
				b.WriteString("[^/]*")
				i++
			}
		case '?':
			b.WriteString("[^/]")
			i++
		case '[':
			end := classEnd(glob, i)
			if end < 0 {
				b.WriteString(`\[`)
				i++
				continue
			}
			class := glob[i+1 : end]
			if rest, ok := strings.CutPrefix(class, "!"); ok {
				class = "^" + rest
			}
			b.WriteString("[" + class + "]")
			i = end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String()
}

// classEnd returns the index of the ']' closing the class opened at
// glob[start], or -1. A ']' right after "[" or "[!" is a member.
func classEnd(glob string, start int) int {
	j := start + 1
	if j < len(glob) && glob[j] == '!' {
		j++
	}
	if j < len(glob) && glob[j] == ']' {
		j++
	}
	if k := strings.IndexByte(glob[j:], ']'); k >= 0 {
		return j + k
	}
	return -1
}
