package grading

import (
	"context"
	"fmt"
)

// Q is a minimal view of a question needed for grading. The answer key
// depends on the type: the correct choice id for multiple-choice, "true" or
// "false" for true-false, and the accepted strings for fill-in-blank.
type Q struct {
	Type      string
	Points    float64
	AnswerKey []string
}

// Result is the outcome of grading a single question response. Scoring is
// all-or-nothing: AutoPoints is either 0 or MaxPoints.
type Result struct {
	AutoPoints float64
	MaxPoints  float64
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, response any) (Result, error)
}

// Grader routes by question type to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, response any) (Result, error)
}

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, response any) (Result, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Result{MaxPoints: q.Points}, fmt.Errorf("no strategy for question type %q", q.Type)
	}
	return s.Grade(ctx, q, response)
}

// NewDefaultGrader installs the built-in strategies for the three supported
// question types.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[string]Strategy{
			"multiple-choice": choiceStrategy{},
			"true-false":      boolStrategy{},
			"fill-in-blank":   textStrategy{},
		},
	}
}

// choiceStrategy awards full points iff the recorded choice id equals the
// key. Responses must be the choice id string.
type choiceStrategy struct{}

func (choiceStrategy) Grade(_ context.Context, q Q, response any) (Result, error) {
	res := Result{MaxPoints: q.Points}
	resp, ok := response.(string)
	if !ok {
		return res, fmt.Errorf("multiple-choice: %w (want choice id string, got %T)", ErrResponseType, response)
	}
	for _, k := range q.AnswerKey {
		if resp == k {
			res.AutoPoints = q.Points
			return res, nil
		}
	}
	return res, nil
}

// boolStrategy awards full points iff the recorded bool equals the key.
type boolStrategy struct{}

func (boolStrategy) Grade(_ context.Context, q Q, response any) (Result, error) {
	res := Result{MaxPoints: q.Points}
	resp, ok := response.(bool)
	if !ok {
		return res, fmt.Errorf("true-false: %w (want bool, got %T)", ErrResponseType, response)
	}
	if len(q.AnswerKey) > 0 && formatBool(resp) == q.AnswerKey[0] {
		res.AutoPoints = q.Points
	}
	return res, nil
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// textStrategy awards full points iff the response, trimmed and case-folded,
// exactly equals one of the accepted answers under the same normalization.
// No partial credit, no fuzzy matching.
type textStrategy struct{}

func (textStrategy) Grade(_ context.Context, q Q, response any) (Result, error) {
	res := Result{MaxPoints: q.Points}
	resp, ok := response.(string)
	if !ok {
		return res, fmt.Errorf("fill-in-blank: %w (want string, got %T)", ErrResponseType, response)
	}
	norm := normalize(resp)
	for _, k := range q.AnswerKey {
		if normalize(k) == norm {
			res.AutoPoints = q.Points
			return res, nil
		}
	}
	return res, nil
}
