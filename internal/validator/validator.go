// Package validator runs per-route request checks before a handler acts.
//
// A Chain is an ordered list of rules. Every rule runs and failures
// accumulate in order, except that once a field has failed, later rules for
// the same field are skipped. Rules only read state; a store error during a
// lookup aborts the chain and is returned as an error, not a failure.
package validator

import (
	"context"
	"errors"
	"strings"

	"github.com/jaekwang-park/todo-items/internal/store"
)

// Failure is one field-level validation problem.
type Failure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a rejected request with its full failure list.
type Error struct {
	Message  string
	Failures []Failure
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return e.Message + " (" + strings.Join(msgs, "; ") + ")"
}

// NewError wraps failures with the default envelope message.
func NewError(failures ...Failure) *Error {
	return &Error{Message: MsgValidationFailed, Failures: failures}
}

// Input is what rules see of a request: the path identifier and the decoded
// JSON body.
type Input struct {
	ID   string
	Body map[string]any
}

// Rule checks one aspect of one field.
type Rule struct {
	Field   string
	Message string
	Check   func(ctx context.Context, in Input) (bool, error)
}

// Chain is the ordered rule list for one route.
type Chain []Rule

// Run evaluates the chain and returns the failures in rule order.
func (c Chain) Run(ctx context.Context, in Input) ([]Failure, error) {
	if in.Body == nil {
		in.Body = map[string]any{}
	}
	var failures []Failure
	failed := make(map[string]bool)
	for _, rule := range c {
		if failed[rule.Field] {
			continue
		}
		ok, err := rule.Check(ctx, in)
		if err != nil {
			return nil, err
		}
		if !ok {
			failed[rule.Field] = true
			failures = append(failures, Failure{Field: rule.Field, Message: rule.Message})
		}
	}
	return failures, nil
}

// Validate runs the chain and folds any failures into an *Error.
func (c Chain) Validate(ctx context.Context, in Input) error {
	failures, err := c.Run(ctx, in)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		return NewError(failures...)
	}
	return nil
}

// Lookup reports whether any stored document matches filter.
type Lookup func(ctx context.Context, filter store.Filter) (bool, error)

// Found adapts a repository FindOne into a Lookup.
func Found[T any](find func(context.Context, store.Filter) (T, error)) Lookup {
	return func(ctx context.Context, filter store.Filter) (bool, error) {
		_, err := find(ctx, filter)
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
}

// IDFormat requires the path identifier to be a well-formed store id.
func IDFormat(message string) Rule {
	return Rule{
		Field:   "id",
		Message: message,
		Check: func(_ context.Context, in Input) (bool, error) {
			return store.ValidID(in.ID), nil
		},
	}
}

// Exists requires the path identifier to resolve to a stored document.
func Exists(lookup Lookup, message string) Rule {
	return Rule{
		Field:   "id",
		Message: message,
		Check: func(ctx context.Context, in Input) (bool, error) {
			return lookup(ctx, store.ByID(in.ID))
		},
	}
}

// Unique requires the string body field not to match any stored document.
// Non-string values pass; shape rules report them.
func Unique(field string, lookup Lookup, message string) Rule {
	return Rule{
		Field:   field,
		Message: message,
		Check: func(ctx context.Context, in Input) (bool, error) {
			v, ok := in.Body[field].(string)
			if !ok {
				return true, nil
			}
			found, err := lookup(ctx, store.ByField(field, v))
			if err != nil {
				return false, err
			}
			return !found, nil
		},
	}
}
