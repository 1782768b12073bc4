// Package sanitizer normalises listing and search input before validation
// and storage.
//
// Every function is idempotent and never returns an error; input that cannot
// be salvaged becomes the empty string and is left for the validator to reject.
package sanitizer
