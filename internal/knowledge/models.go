package knowledge

import (
	"fmt"
	"strings"
)

// Complexity is an ordered scale for tasks and tools.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Rank returns the position of the complexity on the ordered scale.
// Returns 0 for unknown values.
func (c Complexity) Rank() int {
	switch c {
	case ComplexityLow:
		return 1
	case ComplexityMedium:
		return 2
	case ComplexityHigh:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the complexity is a known value.
func (c Complexity) Valid() bool {
	return c.Rank() != 0
}

// Severity grades how disruptive a matched error pattern is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// ErrorCategory classifies error patterns.
type ErrorCategory string

const (
	CategoryPermission ErrorCategory = "permission"
	CategoryAuth       ErrorCategory = "auth"
	CategoryParameter  ErrorCategory = "parameter"
	CategoryRateLimit  ErrorCategory = "rate_limit"
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryAPI        ErrorCategory = "api"
	CategoryValidation ErrorCategory = "validation"
	CategoryUnknown    ErrorCategory = "unknown"
)

// Valid reports whether the category is a known value.
func (c ErrorCategory) Valid() bool {
	switch c {
	case CategoryPermission, CategoryAuth, CategoryParameter, CategoryRateLimit,
		CategoryNotFound, CategoryAPI, CategoryValidation, CategoryUnknown:
		return true
	default:
		return false
	}
}

// ScopeRequirement maps a provider action to the permission scopes it
// needs. Immutable after load.
type ScopeRequirement struct {
	Provider string   `koanf:"provider" json:"provider"`
	Action   string   `koanf:"action" json:"action"`
	Scopes   []string `koanf:"scopes" json:"scopes"`
	Notes    string   `koanf:"notes" json:"notes,omitempty"`
}

// Key returns the index key for the requirement.
func (r *ScopeRequirement) Key() string {
	return r.Provider + "/" + r.Action
}

// Validate checks the requirement for structural errors.
func (r *ScopeRequirement) Validate() error {
	if r.Provider == "" {
		return fmt.Errorf("scope requirement: provider is required")
	}
	if r.Action == "" {
		return fmt.Errorf("scope requirement %s: action is required", r.Provider)
	}
	if len(r.Scopes) == 0 {
		return fmt.Errorf("scope requirement %s: scopes are required", r.Key())
	}
	seen := make(map[string]struct{}, len(r.Scopes))
	for _, s := range r.Scopes {
		if s == "" {
			return fmt.Errorf("scope requirement %s: empty scope", r.Key())
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("scope requirement %s: duplicate scope %q", r.Key(), s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// ToolProfile describes a tool the recommender can suggest.
// Immutable after load.
type ToolProfile struct {
	ID             string     `koanf:"id" json:"id"`
	Description    string     `koanf:"description" json:"description"`
	Capabilities   []string   `koanf:"capabilities" json:"capabilities"`
	Complexity     Complexity `koanf:"complexity" json:"complexity"`
	Scopes         []string   `koanf:"scopes" json:"scopes,omitempty"`
	RequiresAPIKey bool       `koanf:"requires_api_key" json:"requires_api_key"`
	Notes          string     `koanf:"notes" json:"notes,omitempty"`
}

// Validate checks the profile for structural errors.
func (p *ToolProfile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("tool profile: id is required")
	}
	if p.Description == "" {
		return fmt.Errorf("tool profile %s: description is required", p.ID)
	}
	if len(p.Capabilities) == 0 {
		return fmt.Errorf("tool profile %s: capabilities are required", p.ID)
	}
	if !p.Complexity.Valid() {
		return fmt.Errorf("tool profile %s: invalid complexity %q", p.ID, p.Complexity)
	}
	return nil
}

// HasCapability reports whether the profile declares the capability tag.
func (p *ToolProfile) HasCapability(tag string) bool {
	for _, c := range p.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// ErrorPattern is one recognizable failure mode. Keywords are matched
// case-insensitively as substrings; Status is an optional HTTP status
// that earns an exact-match bonus. List order is significant.
type ErrorPattern struct {
	ID         string        `koanf:"id" json:"id"`
	Keywords   []string      `koanf:"keywords" json:"keywords"`
	Status     int           `koanf:"status" json:"status,omitempty"`
	Category   ErrorCategory `koanf:"category" json:"category"`
	Severity   Severity      `koanf:"severity" json:"severity"`
	RootCause  string        `koanf:"root_cause" json:"root_cause"`
	FixSteps   []string      `koanf:"fix_steps" json:"fix_steps"`
	Prevention []string      `koanf:"prevention" json:"prevention,omitempty"`
}

// Validate checks the pattern for structural errors.
func (p *ErrorPattern) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("error pattern: id is required")
	}
	if len(p.Keywords) == 0 {
		return fmt.Errorf("error pattern %s: keywords are required", p.ID)
	}
	for _, k := range p.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("error pattern %s: empty keyword", p.ID)
		}
	}
	if p.Status < 0 || p.Status > 599 {
		return fmt.Errorf("error pattern %s: invalid status %d", p.ID, p.Status)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("error pattern %s: invalid category %q", p.ID, p.Category)
	}
	if !p.Severity.Valid() {
		return fmt.Errorf("error pattern %s: invalid severity %q", p.ID, p.Severity)
	}
	if p.RootCause == "" {
		return fmt.Errorf("error pattern %s: root_cause is required", p.ID)
	}
	return nil
}

// TaskPattern maps free-text task keywords to candidate tool ids in
// priority order.
type TaskPattern struct {
	ID       string   `koanf:"id" json:"id"`
	Keywords []string `koanf:"keywords" json:"keywords"`
	Tools    []string `koanf:"tools" json:"tools"`
}

// Validate checks the pattern for structural errors.
func (p *TaskPattern) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("task pattern: id is required")
	}
	if len(p.Keywords) == 0 {
		return fmt.Errorf("task pattern %s: keywords are required", p.ID)
	}
	if len(p.Tools) == 0 {
		return fmt.Errorf("task pattern %s: tools are required", p.ID)
	}
	return nil
}

// SolutionTemplate holds the fixed remediation text appended to
// diagnoses of a given category.
type SolutionTemplate struct {
	Category  ErrorCategory `koanf:"category" json:"category"`
	Immediate []string      `koanf:"immediate" json:"immediate,omitempty"`
	ShortTerm []string      `koanf:"short_term" json:"short_term,omitempty"`
	LongTerm  []string      `koanf:"long_term" json:"long_term,omitempty"`
}

// Validate checks the template for structural errors.
func (t *SolutionTemplate) Validate() error {
	if !t.Category.Valid() {
		return fmt.Errorf("solution template: invalid category %q", t.Category)
	}
	if len(t.Immediate) == 0 && len(t.ShortTerm) == 0 && len(t.LongTerm) == 0 {
		return fmt.Errorf("solution template %s: at least one action list is required", t.Category)
	}
	return nil
}
