// Package knowledge holds the read-only knowledge base the analyzers
// consult: scope requirements, tool profiles, error patterns, task
// patterns, and solution templates.
//
// Tables are loaded once from a directory of YAML files (or from the
// embedded defaults) and are never mutated afterwards, so a Base is
// safe for concurrent readers. Declaration order within each table is
// preserved; matchers rely on it to break score ties.
//
// # Usage
//
//	base, err := knowledge.Load(cfg.Knowledge.Dir)
//	if err != nil {
//	    return err
//	}
//	profile, ok := base.ToolByID("web_search")
//
// A load failure wraps knowledge.ErrInvalidKnowledge and is fatal for
// the process; the base is never partially constructed.
package knowledge
