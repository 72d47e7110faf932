// Package verify cross-checks rendered documents: every relative entity
// link must point at a heading anchor that exists in the target document.
//
// Findings are advisory. The exporter logs them and carries on.
package verify
