package diagnose

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
	"github.com/fyrsmithlabs/advisord/internal/logging"
)

// Query is the input to an error diagnosis.
type Query struct {
	APICall          string `json:"api_call,omitempty"`
	ErrorMessage     string `json:"error_message"`
	ObservedBehavior string `json:"observed_behavior,omitempty"`
	Status           int    `json:"status,omitempty"`
}

// Validate checks the query shape. An empty error message is valid;
// it matches nothing and yields the fallback diagnosis.
func (q *Query) Validate() error {
	if q.Status < 0 || q.Status > 599 {
		return advisory.NewValidationError("status",
			fmt.Sprintf("must be a valid HTTP status, got %d", q.Status))
	}
	return nil
}

// Service diagnoses API errors. Pure function of the knowledge base
// and the query; no cross-call state.
type Service struct {
	base      *knowledge.Base
	formatter *advisory.Formatter
	logger    *logging.Logger
	tracer    trace.Tracer
}

// NewService creates an error diagnoser.
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

// Diagnose matches the error against known failure patterns.
//
// A message matching nothing, including an empty message, is not an
// error; it returns the generic fallback diagnosis with confidence 0.
func (s *Service) Diagnose(ctx context.Context, query *Query) (*advisory.Result, error) {
	ctx, span := s.tracer.Start(ctx, "diagnose.Error")
	defer span.End()

	if query == nil {
		return nil, advisory.NewValidationError("query", "cannot be nil")
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pattern, score := Match(s.base, query.ErrorMessage, query.ObservedBehavior, query.Status)

	attrs := []attribute.KeyValue{
		attribute.Float64("diagnose.confidence", score),
	}
	if pattern != nil {
		attrs = append(attrs,
			attribute.String("diagnose.pattern", pattern.ID),
			attribute.String("diagnose.category", string(pattern.Category)),
		)
	}
	span.SetAttributes(attrs...)

	if pattern == nil {
		s.logger.Debug(ctx, "no failure pattern matched",
			zap.String("api_call", query.APICall),
		)
	} else {
		s.logger.Debug(ctx, "matched failure pattern",
			logging.Pattern(pattern.ID),
			zap.String("category", string(pattern.Category)),
			logging.Confidence(score),
		)
	}

	res := s.formatter.ErrorDiagnosis(pattern, score)
	if res.Category == knowledge.CategoryUnknown && query.APICall != "" {
		res.Summary = fmt.Sprintf("%s for %s", res.Summary, query.APICall)
	}
	return res, nil
}
