package schema

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reColOpLiteral  = regexp.MustCompile(`^(\w+)\s*(>=|<=|>|<)\s*(-?[\d.]+)$`)
	reColLessCol    = regexp.MustCompile(`^(\w+)\s*<\s*(\w+)$`)
	reLengthGreater = regexp.MustCompile(`(?i)^(?:length|char_length|character_length)\((\w+)\)\s*>\s*(\d+)$`)
	reBetween       = regexp.MustCompile(`(?i)^(\w+)\s+between\s+(-?[\d.]+)\s+and\s+(-?[\d.]+)$`)
	reIn            = regexp.MustCompile(`(?i)^(\w+)\s+in\s*\((.+)\)$`)
)

// ParseCheckExpression recognizes a handful of common single-column CHECK
// constraint shapes (the same ones every dialect's introspector produces
// after stripping the outer parens PostgreSQL/MySQL/SQLite each add around
// a check_clause) and returns their structured form, or nil if the
// expression isn't one of these shapes. An unrecognized expression isn't
// an error: it's simply not used to narrow a semantic provider's range.
func ParseCheckExpression(expr string) *ParsedCheck {
	expr = strings.TrimSpace(expr)
	for strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		inner := strings.TrimSpace(expr[1 : len(expr)-1])
		if inner == expr {
			break
		}
		expr = inner
	}

	if m := reBetween.FindStringSubmatch(expr); m != nil {
		low, errLow := strconv.ParseFloat(m[2], 64)
		high, errHigh := strconv.ParseFloat(m[3], 64)
		if errLow == nil && errHigh == nil {
			return &ParsedCheck{Kind: ParsedCheckBetween, BetweenColumn: m[1], BetweenLow: low, BetweenHigh: high}
		}
	}

	if m := reColOpLiteral.FindStringSubmatch(expr); m != nil {
		if value, err := strconv.ParseFloat(m[3], 64); err == nil {
			return &ParsedCheck{Kind: ParsedCheckColumnOpLiteral, Column: m[1], Op: CompareOp(m[2]), Literal: value}
		}
	}

	if m := reLengthGreater.FindStringSubmatch(expr); m != nil {
		if bound, err := strconv.Atoi(m[2]); err == nil {
			return &ParsedCheck{Kind: ParsedCheckLengthGreater, LengthColumn: m[1], LengthBound: bound}
		}
	}

	if m := reIn.FindStringSubmatch(expr); m != nil {
		values := splitInValues(m[2])
		if len(values) > 0 {
			return &ParsedCheck{Kind: ParsedCheckIn, InColumn: m[1], InValues: values}
		}
	}

	// Column-less-column must be tried last: it would otherwise also match
	// the left-hand side of a literal comparison whose right side happens
	// to be unparsable as a number (it never is, since reColOpLiteral only
	// matches numeric right-hand sides, but ordering stays defensive).
	if m := reColLessCol.FindStringSubmatch(expr); m != nil {
		if _, err := strconv.ParseFloat(m[2], 64); err != nil {
			return &ParsedCheck{Kind: ParsedCheckColumnLessColumn, LeftColumn: m[1], RightColumn: m[2]}
		}
	}

	return nil
}

// splitInValues parses the comma-separated, optionally quoted value list
// inside an IN (...) clause.
func splitInValues(inner string) []string {
	var values []string
	for _, part := range strings.Split(inner, ",") {
		v := strings.TrimSpace(part)
		v = strings.Trim(v, "'\"")
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}
