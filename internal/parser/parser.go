// Package parser turns raw exported trade logs into canonical flips.
//
// Four independent paths produce flips: manual entry, a generic delimited
// format, and two RuneLite export shapes (summary report and offer log).
// RuneLite input is dispatched through an ordered list of named format
// detectors, each a predicate over the normalized header plus a parse
// function, so new export shapes can be added without touching existing
// ones.
//
// Every parse call is atomic: either the whole input converts to flips or
// an error is returned and nothing is emitted.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

var (
	// ErrEmptyInput is returned when an import contains no data rows.
	ErrEmptyInput = errors.New("input has no data rows")

	// ErrUnrecognizedFormat is returned when required header columns
	// cannot be matched for any known export format.
	ErrUnrecognizedFormat = errors.New("unrecognized export format")

	// ErrMissingItem is returned by the manual-entry path when the item
	// name is empty.
	ErrMissingItem = errors.New("item name is required")
)

// format pairs a named header predicate with its parse function.
type format struct {
	name   string
	detect func(header []string) bool
	parse  func(header []string, rows [][]string, taxRate float64) ([]domain.Flip, error)
}

// runeliteFormats is consulted in order; the offer log acts as the
// fallback when summary-report detection fails.
var runeliteFormats = []format{
	{name: "summary report", detect: detectSummaryReport, parse: parseSummaryReport},
	{name: "offer log", detect: func([]string) bool { return true }, parse: parseOfferLog},
}

// ParseRuneLite parses a RuneLite GE export (summary TSV/CSV or offer log)
// into flips. taxRate is the exchange tax as a fraction (0.02 for 2%) and
// applies only to the offer-log format; the summary report carries its own
// per-row tax totals.
func ParseRuneLite(raw string, taxRate float64) ([]domain.Flip, error) {
	lines := splitLines(raw)
	if len(lines) < 2 {
		return nil, ErrEmptyInput
	}

	// Delimiter is sniffed from the header row: tab wins over comma.
	delim := ","
	if strings.Contains(lines[0], "\t") {
		delim = "\t"
	}

	header := splitFields(lines[0], delim)
	for i := range header {
		header[i] = strings.ToLower(header[i])
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitFields(line, delim))
	}

	for _, f := range runeliteFormats {
		if f.detect(header) {
			return f.parse(header, rows, taxRate)
		}
	}
	return nil, ErrUnrecognizedFormat
}

// splitLines splits raw text on newlines, tolerating Windows line endings,
// and drops blank lines.
func splitLines(raw string) []string {
	out := make([]string, 0, 64)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// splitFields splits one row on the delimiter and trims every field.
func splitFields(row, delim string) []string {
	fields := strings.Split(row, delim)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// cell returns the i-th field of a row, or "" for short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// indexExact returns the index of the column whose name equals name.
func indexExact(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// indexContains returns the index of the first column whose name contains
// substr.
func indexContains(header []string, substr string) int {
	for i, h := range header {
		if strings.Contains(h, substr) {
			return i
		}
	}
	return -1
}

// indexMatch returns the index of the first column whose name matches re.
func indexMatch(header []string, re *regexp.Regexp) int {
	for i, h := range header {
		if re.MatchString(h) {
			return i
		}
	}
	return -1
}

// parseNumber parses a real number, returning 0 when the field is empty or
// unparseable. Callers that must preserve garbage as NaN parse directly.
func parseNumber(s string) float64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// timestampLayouts covers the date/time strings seen in exchange exports.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02 Jan 2006 15:04:05",
	"Jan 2, 2006, 3:04:05 PM",
	"2006-01-02",
}

// parseTimestamp parses a date/time string against the known layouts.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseEventTime parses an offer-log time cell, which may be an epoch
// millisecond count or a date/time string. Unparseable times fall back to
// the current time, the same leniency every other timestamp field gets.
func parseEventTime(s string) time.Time {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	if ts, ok := parseTimestamp(s); ok {
		return ts
	}
	return time.Now().UTC()
}

// RowError is the malformed-row error raised by the generic importer.
// Row is the 1-based number of the offending row.
type RowError struct {
	Row int
	Msg string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Msg)
}
