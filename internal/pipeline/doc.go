// Package pipeline drives one export run: fetch the container from a
// source, project and render the four documents, check cross references,
// persist the documents concurrently, then record the outcome.
//
// A run never panics on bad input and never returns partial documents: a
// fetch or data-integrity failure aborts before anything is written. Write
// failures are per document and do not affect the other writes.
package pipeline
