package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile appends the rules in the file at path to the chain, in order.
// One rule per line:
//
//	+ PATTERN   or  include PATTERN
//	- PATTERN   or  exclude PATTERN
//	PATTERN     exclude, as rsync does
//
// Blank lines and lines starting with '#' are ignored.
func (c *Chain) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		include, pattern := parseRule(line)
		if pattern == "" {
			return fmt.Errorf("filter file %s line %d: missing pattern", path, lineNum)
		}
		if err := c.add(pattern, include); err != nil {
			return fmt.Errorf("filter file %s line %d: %w", path, lineNum, err)
		}
	}
	return scanner.Err()
}

func parseRule(line string) (include bool, pattern string) {
	switch line {
	case "+", "include":
		return true, ""
	case "-", "exclude":
		return false, ""
	}
	for _, p := range []struct {
		prefix  string
		include bool
	}{
		{"+ ", true},
		{"- ", false},
		{"include ", true},
		{"exclude ", false},
	} {
		if rest, ok := strings.CutPrefix(line, p.prefix); ok {
			return p.include, strings.TrimSpace(rest)
		}
	}
	return false, line
}
