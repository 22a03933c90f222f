package usecase

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// RegistrationInput is the form payload of a registration request.
// Absent form fields arrive as empty strings.
type RegistrationInput struct {
	Username string
	Name     string
	Gender   string
	Password string
}

// stripPolicy removes every element and keeps only text content.
var stripPolicy = bluemonday.StrictPolicy()

// Sanitize trims whitespace and strips markup from the free-text fields.
// The password is passed through untouched since it is only ever hashed.
func Sanitize(in RegistrationInput) RegistrationInput {
	return RegistrationInput{
		Username: strings.TrimSpace(stripTags(in.Username)),
		Name:     strings.TrimSpace(stripTags(in.Name)),
		Gender:   strings.TrimSpace(in.Gender),
		Password: in.Password,
	}
}

// maxStripPasses bounds how many layers of entity encoding are peeled off one value.
const maxStripPasses = 8

// stripTags drops markup and undoes the entity escaping bluemonday applies to the remaining text,
// so values are stored as plain text and escaped once at render time.
// Decoding can turn escaped text such as "&lt;b&gt;" into new markup, so the strip is repeated
// until the value stops changing. A value still changing after maxStripPasses is kept in escaped form.
func stripTags(s string) string {
	for range maxStripPasses {
		if !strings.ContainsAny(s, "<>&") {
			return s
		}
		next := html.UnescapeString(stripPolicy.Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
	return stripPolicy.Sanitize(s)
}
