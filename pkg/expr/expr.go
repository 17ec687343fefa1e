package expr

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var ErrResultType = errors.New("expected string result")

// defaultEnv is shared by [NewPageFormatter].
var defaultEnv = sync.OnceValues(func() (*Environment, error) {
	return NewEnvironment()
})

// Environment is a [*cel.Env] with the page variables and functions declared.
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates an [Environment]. opts are applied before the page
// library.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := cel.NewEnv(append(opts, cel.Lib(lib{}))...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// MustNewEnvironment is like [NewEnvironment] but panics on error.
func MustNewEnvironment(opts ...cel.EnvOption) *Environment {
	env, err := NewEnvironment(opts...)
	if err != nil {
		panic(err)
	}

	return env
}

// PageFormatter renders the page indicator with a CEL expression.
type PageFormatter struct {
	program    cel.Program
	expression string
}

// NewPageFormatter compiles expression in the default [Environment].
func NewPageFormatter(expression string) (*PageFormatter, error) {
	env, err := defaultEnv()
	if err != nil {
		return nil, err
	}

	return env.NewPageFormatter(expression)
}

// NewPageFormatter compiles expression, which must return a string.
func (e *Environment) NewPageFormatter(expression string) (*PageFormatter, error) {
	ast, issues := e.env.Compile(expression)
	if issues.Err() != nil {
		return nil, fmt.Errorf("page formatter %q: %w", expression, issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("page formatter %q: %w", expression, err)
	}

	return &PageFormatter{program: program, expression: expression}, nil
}

// Format evaluates the expression. current is one-based, or 0 when there is
// no current page.
func (f *PageFormatter) Format(current, total int) (string, error) {
	out, _, err := f.program.Eval(map[string]any{
		"current": int64(current),
		"total":   int64(total),
	})
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", f.expression, err)
	}

	s, ok := out.Value().(string)
	if !ok {
		return "", fmt.Errorf("evaluate %q: %w, got %s", f.expression, ErrResultType, out.Type().TypeName())
	}

	return s, nil
}

// String returns the source expression.
func (f *PageFormatter) String() string {
	return f.expression
}
