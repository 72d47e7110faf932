// Package projection turns a container snapshot into flat, render-ready
// records: one TriggerRecord, TagRecord and VariableRecord per entity, in
// input order, with folder and trigger references resolved to names.
package projection
