package validation

import "math"

// Source is a decoded parameter source: route params, a JSON body or the
// query string. A nil Source means the request carried none at all.
type Source map[string]interface{}

// Truthy reports whether v counts as a supplied value. Empty strings, zero
// numbers, false and null are treated as missing; arrays and objects are
// supplied even when empty.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}

// RequireAll succeeds when src exists and every field is truthy. Otherwise it
// reports the missing fields in the order given.
func RequireAll(name SourceName, src Source, fields ...string) error {
	if src == nil {
		return &NoSourceError{Source: name}
	}
	var missing []string
	for _, f := range fields {
		if !Truthy(src[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Source: name, Fields: missing}
	}
	return nil
}

// RequireSome succeeds when src exists and at least one candidate is truthy.
func RequireSome(name SourceName, src Source, candidates ...string) error {
	if src == nil {
		return &NoSourceError{Source: name}
	}
	for _, f := range candidates {
		if Truthy(src[f]) {
			return nil
		}
	}
	return &NoMatchingFieldError{Source: name, Candidates: append([]string(nil), candidates...)}
}
