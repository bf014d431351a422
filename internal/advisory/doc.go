// Package advisory defines the advisory result model shared by the
// three analyzers and the Formatter that turns raw matches into
// results.
//
// The Formatter only interpolates fields that exist in the knowledge
// base and the query; it never invents free text. When the best match
// falls below the configured confidence threshold, it emits a generic
// fallback result flagged with confidence 0 instead of failing.
package advisory
