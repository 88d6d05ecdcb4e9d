package versioned

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoEvaluator     = errors.New("versioned: evaluator not configured")
	ErrEmptyExpression = errors.New("versioned: expression must not be empty")
	// ErrReservedBinding indicates a view property is named like one of the
	// variables every rule receives (now, args, version, object_id).
	ErrReservedBinding = errors.New("versioned: property name collides with a rule variable")
)

var reservedBindings = [...]string{"now", "args", "version", "object_id"}

// RuleContext carries the inputs of one rule evaluation.
type RuleContext struct {
	View     map[string]any
	ObjectID ObjectID
	Version  Version
	Now      *time.Time
	Args     map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.View == nil {
		ctx.View = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaults()
	return *ctx.Now
}

// bindings returns the variables exposed to expressions: every view entry
// plus now, args, version and object_id. A view entry named like one of the
// latter fails with ErrReservedBinding instead of being shadowed.
func (ctx RuleContext) bindings() (map[string]any, error) {
	for _, name := range reservedBindings {
		if _, ok := ctx.View[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrReservedBinding, name)
		}
	}
	env := make(map[string]any, len(ctx.View)+len(reservedBindings))
	for key, value := range ctx.View {
		env[key] = value
	}
	env["now"] = ctx.timestamp()
	env["args"] = ctx.Args
	env["version"] = int(ctx.Version)
	env["object_id"] = ctx.ObjectID.String()
	return env, nil
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// WithEvaluator configures the evaluator used by Session.Evaluate. The
// default is the expr-lang evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *sessionConfig) {
		cfg.evaluator = e
	}
}

// Evaluate runs expr against obj's view at the ambient version.
func (s *Session) Evaluate(obj Versionable, expr string) (any, error) {
	return s.EvaluateWith(obj, RuleContext{}, expr)
}

// EvaluateWith runs expr with ctx, filling View, ObjectID and Version from obj
// and the ambient version when they are unset. A Base version is treated as
// unset. Every evaluator failure is returned as an *EvaluationError.
func (s *Session) EvaluateWith(obj Versionable, ctx RuleContext, expr string) (any, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	if ctx.Version == Base {
		ctx.Version = s.Version()
	}
	if ctx.View == nil {
		ctx.View = s.ViewAt(obj, ctx.Version)
	}
	if ctx.ObjectID == (ObjectID{}) {
		ctx.ObjectID = obj.VersionID()
	}
	ctx = ctx.withDefaults()

	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = newEvaluationError(evaluatorEngineName(evaluator), expr, ctx, evalErr)
	s.cfg.logger.Log(LogEvent{
		Op:       OpEvaluate,
		ObjectID: ctx.ObjectID,
		Version:  ctx.Version,
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

func (s *Session) resolveEvaluator() (Evaluator, error) {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if s.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(s.cfg.programCache))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = evaluator
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if named, ok := e.(interface{ engine() string }); ok {
		return named.engine()
	}
	if e == nil {
		return "unknown"
	}
	return "custom"
}
