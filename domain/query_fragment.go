package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// QueryFragment compiles one filter condition into the store's filter syntax.
// The zero-translation case is RawFragment, which stringifies as-is.
type QueryFragment interface {
	Fragment() string
}

// escapeFilterValue escapes special characters in filter values.
func escapeFilterValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// TermFragment matches documents whose field equals a value.
type TermFragment struct {
	Field string
	Value string
}

func (f TermFragment) Fragment() string {
	return fmt.Sprintf("%s = \"%s\"", f.Field, escapeFilterValue(f.Value))
}

// RangeFragment matches documents whose numeric field lies in [Min, Max].
// A nil bound leaves that end open.
type RangeFragment struct {
	Field string
	Min   *float64
	Max   *float64
}

func (f RangeFragment) Fragment() string {
	var parts []string
	if f.Min != nil {
		parts = append(parts, f.Field+" >= "+strconv.FormatFloat(*f.Min, 'f', -1, 64))
	}
	if f.Max != nil {
		parts = append(parts, f.Field+" <= "+strconv.FormatFloat(*f.Max, 'f', -1, 64))
	}
	return strings.Join(parts, " AND ")
}

// NegationFragment inverts another fragment.
type NegationFragment struct {
	Inner QueryFragment
}

func (f NegationFragment) Fragment() string {
	inner := f.Inner.Fragment()
	if inner == "" {
		return ""
	}
	return "NOT (" + inner + ")"
}

// RawFragment passes a pre-built filter expression through unchanged.
type RawFragment string

func (f RawFragment) Fragment() string {
	return string(f)
}

// CombineFragments joins fragments into a single conjunctive filter,
// skipping empty ones.
func CombineFragments(fragments []QueryFragment) string {
	var parts []string
	for _, f := range fragments {
		if s := f.Fragment(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " AND ")
}
