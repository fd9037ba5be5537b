package graphfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Missing is the placeholder emitted for any (label, group) cell the input
// never supplied. The emitter tells the backend to treat it as a missing
// datum.
const Missing = "?"

// ErrBadColumn reports an unusable column= selector.
var ErrBadColumn = errors.New("invalid column selector")

// SplitDataRow splits a data row into its label and value tokens. A row
// starting with a double-quoted span (with no embedded quote; there is no
// escape) keeps the whole span, quotes included, as the label so labels may
// contain spaces. Otherwise the first whitespace token is the label.
func SplitDataRow(line string) (label string, values []string) {
	if strings.HasPrefix(line, `"`) {
		if end := strings.IndexByte(line[1:], '"'); end >= 0 {
			return line[:end+2], strings.Fields(line[end+2:])
		}
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// selector picks the value a multi-mode row contributes to its cell.
type selector func(values []string) string

// resolveSelector turns the raw column= value into a selector. An unset
// selector passes all values through; "last" picks the final token; a
// 1-based index (the label counts as column 1) picks one value, yielding
// the missing placeholder when the row is too short.
func resolveSelector(raw string) (selector, error) {
	switch raw {
	case "":
		return func(values []string) string {
			if len(values) == 0 {
				return Missing
			}
			return strings.Join(values, " ")
		}, nil
	case "last":
		return func(values []string) string {
			if len(values) == 0 {
				return Missing
			}
			return values[len(values)-1]
		}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadColumn, raw)
	}
	return func(values []string) string {
		idx := n - 2
		if idx < 0 || idx >= len(values) {
			return Missing
		}
		return values[idx]
	}, nil
}
