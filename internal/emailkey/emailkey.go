// Package emailkey converts email addresses to and from the form used as
// document store keys. Dots are significant in emails but reserved as key
// separators by the store layout, so stored keys carry dashes instead.
package emailkey

import "strings"

// Encode converts an email address to its storage-key form by replacing
// every '.' with '-'. It is total and never fails.
func Encode(email string) string {
	return strings.ReplaceAll(email, ".", "-")
}

// Decode converts a storage key back to an email address by replacing
// every '-' with '.'. It is total and never fails.
//
// Decode(Encode(x)) == x only holds when x contains no literal '-': the
// mapping collapses dashes and dots into one character, so an email like
// "jean-luc@example.com" does not survive a round trip. Callers that accept
// arbitrary emails should check Ambiguous before trusting the round trip.
func Decode(key string) string {
	return strings.ReplaceAll(key, "-", ".")
}

// Ambiguous reports whether the email contains a literal '-' and therefore
// cannot be recovered exactly from its encoded form.
func Ambiguous(email string) bool {
	return strings.Contains(email, "-")
}
