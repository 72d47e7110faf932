// Package render turns projected records into the markdown documents
// published for a container: one page each for triggers, tags and
// variables, plus the version history table.
//
// Output is plain string concatenation. Bodies are byte-stable for a
// given input so that unchanged containers produce unchanged documents.
package render
