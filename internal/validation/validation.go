// Package validation binds request payloads and runs their validator tags.
//
// Failures come back as a 400 errs.HTTPError whose field errors use the
// lowercased struct field name and a short client-facing message, e.g.
// {"field": "country", "error": "must be exactly 2 characters"}.
package validation
