// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-supplied strings before they are
// stored or used as lookup keys.
package normalize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Email lowercases and trims an email address. Emails are identity keys, so
// every read and write must pass through here.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Text strips any HTML from free-form input (names, company names, notes)
// and trims the result. Fields cleaned here are echoed back to other users,
// so they must never carry markup.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
