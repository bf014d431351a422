package toolrec

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
)

// Query is the input to a tool recommendation.
//
// Requirements lists capability tags the task needs. When empty, the
// free-text TaskDescription drives task-pattern matching instead. A
// query with neither is answered with the first cataloged tool at
// confidence 0, not an error.
type Query struct {
	TaskDescription string               `json:"task_description,omitempty"`
	Complexity      knowledge.Complexity `json:"complexity,omitempty"`
	Requirements    []string             `json:"requirements,omitempty"`
}

// Validate checks the query shape.
func (q *Query) Validate() error {
	for _, r := range q.Requirements {
		if strings.TrimSpace(r) == "" {
			return advisory.NewValidationError("requirements", "capability tag cannot be blank")
		}
	}
	if q.Complexity != "" && !q.Complexity.Valid() {
		return advisory.NewValidationError("complexity",
			fmt.Sprintf("must be low, medium, or high, got %q", q.Complexity))
	}
	return nil
}

// Service recommends tools for a task. Pure function of the knowledge
// base and the query; no cross-call state.
type Service struct {
	base      *knowledge.Base
	formatter *advisory.Formatter
	logger    *logging.Logger
	tracer    trace.Tracer
}

// NewService creates a tool recommender.
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

// Recommend ranks tools for the query and returns the advisory result.
func (s *Service) Recommend(ctx context.Context, query *Query) (*advisory.Result, error) {
	ctx, span := s.tracer.Start(ctx, "toolrec.Recommend")
	defer span.End()

	if query == nil {
		return nil, advisory.NewValidationError("query", "cannot be nil")
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	complexity := query.Complexity
	if complexity == "" {
		complexity = EstimateComplexity(query.TaskDescription)
	}

	var picks []advisory.ToolPick
	switch {
	case len(query.Requirements) > 0:
		picks = Rank(s.base, query.Requirements, complexity)
	case strings.TrimSpace(query.TaskDescription) != "":
		picks = RankByDescription(s.base, query.TaskDescription, complexity)
	default:
		picks = FirstDeclared(s.base)
	}

	confidence := 0.0
	if len(picks) > 0 {
		confidence = picks[0].Score
	}

	span.SetAttributes(
		attribute.String("toolrec.complexity", string(complexity)),
		attribute.Int("toolrec.candidates", len(picks)),
		attribute.Float64("toolrec.confidence", confidence),
	)

	s.logger.Debug(ctx, "ranked tool candidates",
		zap.String("complexity", string(complexity)),
		zap.Int("candidates", len(picks)),
		logging.Confidence(confidence),
	)

	return s.formatter.ToolRecommendation(picks, confidence), nil
}
