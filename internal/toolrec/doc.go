// Package toolrec implements the tool recommender.
//
// Tools are ranked by the fraction of requested capability tags they
// cover, discounted when a tool is much heavier than the task needs.
// When the query carries no explicit capability tags, candidates are
// derived from task patterns matched against the free-text
// description. Ranking is a deterministic total order; score ties keep
// knowledge base declaration order.
package toolrec
