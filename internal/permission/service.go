package permission

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
)

// Query is the input to a permission gap analysis.
//
// Either RequiredScopes is set explicitly, or Provider and Action name
// a knowledge base scope requirement to resolve.
type Query struct {
	Provider        string   `json:"provider,omitempty"`
	Action          string   `json:"action,omitempty"`
	RequiredScopes  []string `json:"required_scopes,omitempty"`
	AvailableScopes []string `json:"available_scopes"`
}

// Validate checks the query shape.
func (q *Query) Validate() error {
	if len(q.RequiredScopes) == 0 {
		if q.Provider == "" && q.Action == "" {
			return advisory.NewValidationError("required_scopes", "set required_scopes or provider and action")
		}
		if q.Provider == "" {
			return advisory.NewValidationError("provider", "required when action is set")
		}
		if q.Action == "" {
			return advisory.NewValidationError("action", "required when provider is set")
		}
	}
	for _, s := range q.RequiredScopes {
		if strings.TrimSpace(s) == "" {
			return advisory.NewValidationError("required_scopes", "scope cannot be blank")
		}
	}
	for _, s := range q.AvailableScopes {
		if strings.TrimSpace(s) == "" {
			return advisory.NewValidationError("available_scopes", "scope cannot be blank")
		}
	}
	return nil
}

// Service analyzes permission gaps. Pure function of the knowledge
// base and the query; no cross-call state.
type Service struct {
	base      *knowledge.Base
	formatter *advisory.Formatter
	logger    *logging.Logger
	tracer    trace.Tracer
}

// NewService creates a permission gap analyzer.
func NewService(base *knowledge.Base, formatter *advisory.Formatter, logger *logging.Logger, tracer trace.Tracer) (*Service, error) {
	if base == nil {
		return nil, fmt.Errorf("knowledge base is required")
	}
	if formatter == nil {
		return nil, fmt.Errorf("formatter is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if tracer == nil {
		return nil, fmt.Errorf("tracer is required")
	}
	return &Service{
		base:      base,
		formatter: formatter,
		logger:    logger,
		tracer:    tracer,
	}, nil
}

// Analyze computes the gap between required and available scopes.
func (s *Service) Analyze(ctx context.Context, query *Query) (*advisory.Result, error) {
	ctx, span := s.tracer.Start(ctx, "permission.Analyze")
	defer span.End()

	if query == nil {
		return nil, advisory.NewValidationError("query", "cannot be nil")
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	required := query.RequiredScopes
	var req *knowledge.ScopeRequirement
	if len(required) == 0 {
		resolved, ok := s.base.ScopesFor(query.Provider, query.Action)
		if !ok {
			return nil, advisory.NewValidationError("action",
				fmt.Sprintf("no scope requirement for %s/%s", query.Provider, query.Action))
		}
		req = resolved
		required = resolved.Scopes
	}

	missing, satisfied, confidence := Gap(required, query.AvailableScopes)

	span.SetAttributes(
		attribute.Int("permission.required", len(missing)+len(satisfied)),
		attribute.Int("permission.missing", len(missing)),
		attribute.Float64("permission.confidence", confidence),
	)

	s.logger.Debug(ctx, "analyzed permission gap",
		logging.Scopes("required", len(missing)+len(satisfied)),
		logging.Scopes("missing", len(missing)),
		logging.Confidence(confidence),
	)

	return s.formatter.PermissionGap(req, missing, satisfied, confidence), nil
}
