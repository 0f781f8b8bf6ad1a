// Package expr compiles user-supplied expressions in x into scalar
// functions for the root finders.
package expr

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/san-kum/rootsim/internal/rootfind"
)

// ErrNoVariable indicates an expression that does not reference x.
var ErrNoVariable = errors.New("expr: expression must reference x")

var functions = map[string]govaluate.ExpressionFunction{
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"exp":  unary(math.Exp),
	"log":  unary(math.Log),
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
	"pow": func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("pow expects 2 arguments, got %d", len(args))
		}
		return math.Pow(toFloat(args[0]), toFloat(args[1])), nil
	},
}

// Compile parses src (for example "x**x - 100" or "x - 0.5*sin(x) - 1")
// into a rootfind.Func. Evaluation failures yield NaN, which the solvers
// reject as divergence.
func Compile(src string) (rootfind.Func, error) {
	src = strings.TrimSpace(src)
	parsed, err := govaluate.NewEvaluableExpressionWithFunctions(src, functions)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", src, err)
	}

	hasX := false
	for _, v := range parsed.Vars() {
		if v != "x" {
			return nil, fmt.Errorf("unknown variable %q in %q", v, src)
		}
		hasX = true
	}
	if !hasX {
		return nil, ErrNoVariable
	}

	return func(x float64) float64 {
		// A fresh map per call keeps the function reentrant.
		v, err := parsed.Evaluate(map[string]interface{}{"x": x})
		if err != nil {
			return math.NaN()
		}
		return toFloat(v)
	}, nil
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		return fn(toFloat(args[0])), nil
	}
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}
