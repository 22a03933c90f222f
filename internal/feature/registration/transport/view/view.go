// Package view holds the HTML templates of the registration feature.
package view

import (
	"embed"
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// UsersPage is the template name of the user listing.
const UsersPage = "users.html"

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"badgeClass":     badgeClass,
	"capitalize":     Capitalize,
	"formatDateTime": FormatDateTime,
}

// Templates parses the embedded templates. Values are escaped by html/template's contextual autoescaping.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for use at startup.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Capitalize upper-cases the first letter, e.g. "female" -> "Female".
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatDateTime renders a timestamp as "2006-01-02 15:04:05".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(time.DateTime)
}

// badgeClass keeps CSS class names to the known genders.
func badgeClass(gender string) string {
	switch strings.ToLower(gender) {
	case "male", "female", "other":
		return "badge-" + strings.ToLower(gender)
	default:
		return "badge-other"
	}
}
