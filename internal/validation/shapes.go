package validation

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/postan/postan-api/internal/models"
)

var (
	timestampPattern = regexp.MustCompile(`^\w{3},\s\d{2}\s\w{3}\s\d{4}\s(\d{2}(:|\s)){3}GMT$`)
	tagPattern       = regexp.MustCompile(`^#\w{1,24}$`)

	validate = validator.New()
)

var urlSchemes = map[string]bool{"http": true, "https": true, "ftp": true}

// PostHasContent reports whether at least one of message, files or link is
// set to a non-empty value.
func PostHasContent(p *models.Post) bool {
	if p == nil {
		return false
	}
	return (p.Message != nil && *p.Message != "") ||
		len(p.Files) > 0 ||
		(p.Link != nil && *p.Link != "")
}

// IsUTCTimestamp checks the textual shape "Ddd, DD Mon YYYY HH:MM:SS GMT".
// It does not check that the fields form a real date; see
// TimestampHasValidContent.
func IsUTCTimestamp(v interface{}) bool {
	s, ok := v.(string)
	return ok && timestampPattern.MatchString(s)
}

// TimestampHasValidContent reports whether a shape-valid timestamp names a
// real calendar date and time of day. The weekday is not cross-checked.
func TimestampHasValidContent(s string) bool {
	if !IsUTCTimestamp(s) {
		return false
	}
	rest := s[strings.Index(s, ",")+2:]
	// separators matched by \s or (:|\s) are normalized before parsing
	if len(rest) != len("02 Jan 2006 15:04:05 GMT") {
		return false
	}
	b := []byte(rest)
	b[2], b[6], b[11], b[20] = ' ', ' ', ' ', ' '
	b[14], b[17] = ':', ':'
	_, err := time.Parse("02 Jan 2006 15:04:05 GMT", string(b))
	return err == nil
}

// IsURL accepts absolute http, https or ftp URLs whose host has a top-level
// domain.
func IsURL(s string) bool {
	if validate.Var(s, "required,url") != nil {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || !urlSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	return validate.Var(u.Hostname(), "fqdn") == nil
}

// AllAreURLs reports whether every element is a string holding a URL.
func AllAreURLs(values []interface{}) bool {
	for _, v := range values {
		s, ok := v.(string)
		if !ok || !IsURL(s) {
			return false
		}
	}
	return true
}

func allStringsAreURLs(values []string) bool {
	for _, s := range values {
		if !IsURL(s) {
			return false
		}
	}
	return true
}

// AllAreValidTags reports whether every element is "#" followed by 1 to 24
// word characters.
func AllAreValidTags(values []string) bool {
	for _, v := range values {
		if !tagPattern.MatchString(v) {
			return false
		}
	}
	return true
}

// IsEmail requires a syntactically valid address with a qualified domain.
func IsEmail(s string) bool {
	if validate.Var(s, "required,email") != nil {
		return false
	}
	at := strings.LastIndex(s, "@")
	return validate.Var(s[at+1:], "fqdn") == nil
}

// HasNoInteriorWhitespace ignores leading and trailing whitespace.
func HasNoInteriorWhitespace(s string) bool {
	return strings.IndexFunc(strings.TrimSpace(s), unicode.IsSpace) < 0
}

// LengthWithin is an inclusive rune-count bounds check. A negative max means
// unbounded.
func LengthWithin(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && (max < 0 || n <= max)
}
