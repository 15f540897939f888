package main

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// idColumn names the spreadsheet column that salts the cache-busting
// suffix. Every row must carry a numeric value here.
const idColumn = "ID"

var placeholderPattern = regexp.MustCompile(`<([^>]+)>`)

// MissingValueError reports a placeholder whose column is absent from
// the row or holds a blank value.
type MissingValueError struct {
	Placeholder string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing value for %q", e.Placeholder)
}

// URLBuilder substitutes spreadsheet values into a middleware URL
// template. Substituted values are not URL-encoded; templates and column
// values must already be URL-safe.
type URLBuilder struct {
	template     string
	placeholders []string
	nowNanos     func() int64
}

// NewURLBuilder scans the template for <name> placeholders.
func NewURLBuilder(template string) *URLBuilder {
	return &URLBuilder{
		template:     template,
		placeholders: extractPlaceholders(template),
		nowNanos:     func() int64 { return time.Now().UnixNano() },
	}
}

// Placeholders returns the placeholder names found in the template, in
// template order, duplicates included.
func (b *URLBuilder) Placeholders() []string {
	return b.placeholders
}

// Build resolves the template against one row and appends the
// cache-busting suffix: &_ followed by the nanosecond timestamp
// multiplied by the row's ID value.
func (b *URLBuilder) Build(row RowRecord) (string, error) {
	url := b.template
	for _, ph := range b.placeholders {
		value, ok := row[ph]
		if !ok || value == "" {
			return "", &MissingValueError{Placeholder: ph}
		}
		url = strings.ReplaceAll(url, "<"+ph+">", value)
	}

	id, ok := row[idColumn]
	if !ok || id == "" {
		return "", fmt.Errorf("row has no %s value for the cache-busting suffix", idColumn)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", fmt.Errorf("row %s %q is not numeric", idColumn, id)
	}
	if n == 0 {
		log.Printf("Warning: row %s is 0, cache-busting suffix degenerates to 0", idColumn)
	}

	return fmt.Sprintf("%s&_%d", url, b.nowNanos()*n), nil
}

func extractPlaceholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
