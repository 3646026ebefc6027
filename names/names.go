// Package names implements the shared name policy used to validate and
// normalize cell and formula-variable names.
package names

import "regexp"

// Pattern is the base syntactic shape every cell/variable name must match,
// independent of any caller-supplied validator.
var Pattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validator decides whether a normalized name is acceptable beyond the base
// syntactic pattern (e.g. restricting to a known set of spreadsheet cell
// addresses). It is applied only after Pattern already matched.
type Validator func(name string) bool

// Normalizer maps a raw name to its canonical stored form. Callers should
// ensure Normalize(Normalize(x)) == Normalize(x), though nothing in this
// package depends on that beyond documenting the expectation.
type Normalizer func(name string) string

// DefaultValidator accepts every name that already matched Pattern.
func DefaultValidator(string) bool { return true }

// IdentityNormalizer returns its argument unchanged.
func IdentityNormalizer(name string) string { return name }

// Valid reports whether name satisfies Pattern syntactically. It does not
// run any caller-supplied Validator; use Accept for the full policy.
func Valid(name string) bool {
	return name != "" && Pattern.MatchString(name)
}

// Accept applies the full name policy from spec §4.E: name must match
// Pattern, and validate(normalize(name)) must be true.
func Accept(name string, normalize Normalizer, validate Validator) (normalized string, ok bool) {
	if !Valid(name) {
		return "", false
	}
	n := normalize(name)
	if !Valid(n) {
		return "", false
	}
	if !validate(n) {
		return "", false
	}
	return n, true
}
