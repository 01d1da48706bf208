package database

import (
	"fmt"
	"regexp"
)

var placeholderRe = regexp.MustCompile(`\?`)

// ConvertPlaceholders converts positional (`?`) placeholders to PostgreSQL format (`$1`, `$2`, ...)
func ConvertPlaceholders(query string) string {
	count := 0
	return placeholderRe.ReplaceAllStringFunc(query, func(_ string) string {
		count++
		return fmt.Sprintf("$%d", count)
	})
}

// Rebind adapts a `?` query to the placeholder style of driver
func Rebind(driver, query string) string {
	if driver == DriverPostgres {
		return ConvertPlaceholders(query)
	}
	return query
}
