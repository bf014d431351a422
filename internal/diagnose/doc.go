// Package diagnose implements the error diagnoser.
//
// An error message is matched against the knowledge base's ordered
// error pattern table by case-insensitive keyword containment, with a
// bonus when the HTTP status matches exactly. Patterns with zero
// keyword overlap are excluded; ties keep declaration order. A message
// matching nothing yields a generic fallback diagnosis, never an
// error.
package diagnose
