package versioned

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError reports a failed rule with the engine that ran it and the
// object and version it ran against.
type EvaluationError struct {
	Engine   string
	Expr     string
	ObjectID ObjectID
	Version  Version
	Err      error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("versioned: evaluate")
	if e.Engine != "" {
		fmt.Fprintf(&b, " [%s]", e.Engine)
	}
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	fmt.Fprintf(&b, " at %s", e.Version)
	if e.ObjectID != (ObjectID{}) {
		fmt.Fprintf(&b, " on %s", e.ObjectID)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// newEvaluationError attaches rule metadata to err. An EvaluationError that a
// custom evaluator already returned is completed instead of wrapped twice.
func newEvaluationError(engine, expr string, ctx RuleContext, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if errors.As(err, &existing) {
		if existing.Engine == "" {
			existing.Engine = engine
		}
		if existing.Expr == "" {
			existing.Expr = expr
		}
		if existing.ObjectID == (ObjectID{}) {
			existing.ObjectID = ctx.ObjectID
		}
		return err
	}
	return &EvaluationError{
		Engine:   engine,
		Expr:     expr,
		ObjectID: ctx.ObjectID,
		Version:  ctx.Version,
		Err:      err,
	}
}
