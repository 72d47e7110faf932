// Package history keeps a SQLite record of export runs and the documents
// each run wrote, including their content fingerprints.
package history
