// Package record persists the freezer's release record as the generated
// version module itself: Save overwrites the file with rendered source, Load
// recovers the previously frozen fields by scanning that source.
//
// A missing module is reported as ErrNotFound so callers can distinguish
// "first build" from real I/O failures.
package record
