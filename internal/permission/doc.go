// Package permission implements the permission gap analyzer.
//
// Given the scopes an operation requires and the scopes a credential
// holds, it computes the exact set difference and a coverage
// confidence. Required scopes can be stated in the query or resolved
// from the knowledge base by (provider, action).
package permission
