package knowledge

import "fmt"

// Base is the loaded knowledge base. Tables keep declaration order;
// the index maps are secondary lookups only. Never mutated after Load.
type Base struct {
	ScopeRequirements []ScopeRequirement `koanf:"scope_requirements"`
	ToolProfiles      []ToolProfile      `koanf:"tool_profiles"`
	ErrorPatterns     []ErrorPattern     `koanf:"error_patterns"`
	TaskPatterns      []TaskPattern      `koanf:"task_patterns"`
	SolutionTemplates []SolutionTemplate `koanf:"solution_templates"`

	scopeIndex    map[string]*ScopeRequirement
	toolIndex     map[string]*ToolProfile
	templateIndex map[ErrorCategory]*SolutionTemplate
}

// validate checks every table and rejects duplicate identifiers.
func (b *Base) validate() error {
	seenScopes := make(map[string]struct{}, len(b.ScopeRequirements))
	for i := range b.ScopeRequirements {
		r := &b.ScopeRequirements[i]
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seenScopes[r.Key()]; dup {
			return fmt.Errorf("duplicate scope requirement %s", r.Key())
		}
		seenScopes[r.Key()] = struct{}{}
	}

	seenTools := make(map[string]struct{}, len(b.ToolProfiles))
	for i := range b.ToolProfiles {
		p := &b.ToolProfiles[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seenTools[p.ID]; dup {
			return fmt.Errorf("duplicate tool profile %s", p.ID)
		}
		seenTools[p.ID] = struct{}{}
	}

	seenPatterns := make(map[string]struct{}, len(b.ErrorPatterns))
	for i := range b.ErrorPatterns {
		p := &b.ErrorPatterns[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seenPatterns[p.ID]; dup {
			return fmt.Errorf("duplicate error pattern %s", p.ID)
		}
		seenPatterns[p.ID] = struct{}{}
	}

	seenTasks := make(map[string]struct{}, len(b.TaskPatterns))
	for i := range b.TaskPatterns {
		p := &b.TaskPatterns[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seenTasks[p.ID]; dup {
			return fmt.Errorf("duplicate task pattern %s", p.ID)
		}
		seenTasks[p.ID] = struct{}{}
		// Task patterns may only reference declared tools.
		for _, tool := range p.Tools {
			if _, ok := seenTools[tool]; !ok {
				return fmt.Errorf("task pattern %s references unknown tool %s", p.ID, tool)
			}
		}
	}

	seenTemplates := make(map[ErrorCategory]struct{}, len(b.SolutionTemplates))
	for i := range b.SolutionTemplates {
		t := &b.SolutionTemplates[i]
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seenTemplates[t.Category]; dup {
			return fmt.Errorf("duplicate solution template for category %s", t.Category)
		}
		seenTemplates[t.Category] = struct{}{}
	}

	return nil
}

// buildIndexes populates the secondary lookup maps.
func (b *Base) buildIndexes() {
	b.scopeIndex = make(map[string]*ScopeRequirement, len(b.ScopeRequirements))
	for i := range b.ScopeRequirements {
		r := &b.ScopeRequirements[i]
		b.scopeIndex[r.Key()] = r
	}

	b.toolIndex = make(map[string]*ToolProfile, len(b.ToolProfiles))
	for i := range b.ToolProfiles {
		p := &b.ToolProfiles[i]
		b.toolIndex[p.ID] = p
	}

	b.templateIndex = make(map[ErrorCategory]*SolutionTemplate, len(b.SolutionTemplates))
	for i := range b.SolutionTemplates {
		t := &b.SolutionTemplates[i]
		b.templateIndex[t.Category] = t
	}
}

// ScopesFor looks up the scope requirement for a provider action.
func (b *Base) ScopesFor(provider, action string) (*ScopeRequirement, bool) {
	r, ok := b.scopeIndex[provider+"/"+action]
	return r, ok
}

// ToolByID looks up a tool profile by id.
func (b *Base) ToolByID(id string) (*ToolProfile, bool) {
	p, ok := b.toolIndex[id]
	return p, ok
}

// TemplateFor looks up the solution template for an error category.
func (b *Base) TemplateFor(category ErrorCategory) (*SolutionTemplate, bool) {
	t, ok := b.templateIndex[category]
	return t, ok
}
