package redisstatus

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	ParserPositional = "positional"
	ParserLookup     = "lookup"

	usedMemoryKey = "used_memory"
)

// UsedMemoryParser extracts the used-memory figure in bytes from an
// INFO memory reply.
type UsedMemoryParser func(info string) (int64, error)

// PositionalUsedMemory reads the value of the second line of the reply:
//
//	"# Memory\r\nused_memory:1086352\r\n..." -> 1086352
//
// The line index is fixed; a reply with an extra preamble line yields the
// wrong figure.
func PositionalUsedMemory(info string) (int64, error) {
	lines := strings.Split(info, "\r\n")
	if len(lines) < 2 {
		return 0, errors.Wrap(ErrMalformedInfo, "reply has no second line")
	}

	fields := strings.Split(lines[1], ":")
	if len(fields) < 2 {
		return 0, errors.Wrapf(ErrMalformedInfo, "line %q has no value", lines[1])
	}

	return parseLeadingInt(fields[1])
}

// LookupUsedMemory scans all lines for the used_memory key instead of
// relying on its position.
func LookupUsedMemory(info string) (int64, error) {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimRight(line, "\r")

		fields := strings.Split(line, ":")
		if len(fields) < 2 || fields[0] != usedMemoryKey {
			continue
		}

		return parseLeadingInt(fields[1])
	}

	return 0, errors.Wrapf(ErrMalformedInfo, "reply has no %s line", usedMemoryKey)
}

// ParserByName maps a configured parser name to its implementation. The
// empty name selects the positional parser.
func ParserByName(name string) (UsedMemoryParser, error) {
	switch strings.ToLower(name) {
	case "", ParserPositional:
		return PositionalUsedMemory, nil
	case ParserLookup:
		return LookupUsedMemory, nil
	default:
		return nil, errors.Errorf("unknown info parser %q (expected %q or %q)", name, ParserPositional, ParserLookup)
	}
}

// parseLeadingInt parses the longest signed decimal prefix of s, after
// leading whitespace. Trailing garbage is ignored.
func parseLeadingInt(s string) (int64, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0, errors.Wrapf(ErrMalformedInfo, "value %q is not a number", s)
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedInfo, "value %q: %s", s, err)
	}

	return n, nil
}
