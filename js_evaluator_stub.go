//go:build !js_eval

package versioned

type jsUnavailable struct{}

// NewJSEvaluator returns an evaluator that fails every call with
// ErrJSUnavailable. Build with -tags js_eval for the goja engine.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return jsUnavailable{}
}

func (jsUnavailable) engine() string { return "js" }

func (jsUnavailable) Evaluate(RuleContext, string) (any, error) {
	return nil, ErrJSUnavailable
}

func (jsUnavailable) Compile(string) (CompiledRule, error) {
	return nil, ErrJSUnavailable
}

func jsEvaluatorAvailable() bool {
	return false
}
