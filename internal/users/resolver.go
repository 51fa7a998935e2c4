package users

import "errors"

// ErrNoStudent means resolution found no match; callers treat it as an
// informational outcome, not a fault.
var ErrNoStudent = errors.New("no student found")

// Resolve finds the student whose email exactly equals query, case sensitive.
// Emails are unique so the match is never ambiguous. A scanned QR payload and
// a typed email go through this same function; there is no fuzzy matching and
// no trimming.
func Resolve(candidates []User, query string) (*User, error) {
	if query == "" {
		return nil, ErrNoStudent
	}
	for i := range candidates {
		if candidates[i].Email == query {
			return &candidates[i], nil
		}
	}
	return nil, ErrNoStudent
}

// ResolveScan resolves a decoded scan payload. A nil payload means the scanner
// had no code in view. How the payload was produced (callback, polling,
// stream) is the scanner's business; resolution only sees the string.
func ResolveScan(candidates []User, payload *string) (*User, error) {
	if payload == nil {
		return nil, ErrNoStudent
	}
	return Resolve(candidates, *payload)
}
