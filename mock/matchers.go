package mock

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/tarmac-project/resourcemock/request"
)

// ErrInvalidMatcher is returned when a matcher cannot be built.
var ErrInvalidMatcher = errors.New("invalid matcher")

// Match wraps a predicate as a matcher.
func Match(fn func(value any) bool) request.Matcher {
	return request.MatchFunc(fn)
}

// Any accepts every non-nil value.
func Any() request.Matcher {
	return request.MatchFunc(func(v any) bool { return v != nil })
}

// OneOf accepts values deeply equal to one of values.
func OneOf(values ...any) request.Matcher {
	return request.MatchFunc(func(v any) bool {
		for _, want := range values {
			if reflect.DeepEqual(want, v) {
				return true
			}
		}
		return false
	})
}

// Regexp accepts values whose string form matches pattern. Nil never matches.
func Regexp(pattern string) (request.Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Join(ErrInvalidMatcher, err)
	}
	return request.MatchFunc(func(v any) bool {
		if v == nil {
			return false
		}
		return re.MatchString(fmt.Sprint(v))
	}), nil
}

// exprEnv binds the candidate as an untyped "value" so comparisons are
// checked when the expression runs.
type exprEnv struct {
	Value any `expr:"value"`
}

type exprMatcher struct {
	source  string
	program *vm.Program
}

// Expr compiles a boolean expression evaluated against the candidate value,
// which is bound to "value":
//
//	mock.Expr(`value != nil && len(value) >= 3`)
//
// Evaluation errors, such as comparing a missing value with a number, are
// returned from Match.
func Expr(source string) (request.Matcher, error) {
	program, err := expr.Compile(source, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, errors.Join(ErrInvalidMatcher, err)
	}
	return &exprMatcher{source: source, program: program}, nil
}

// MustExpr is like Expr but panics when the expression does not compile.
func MustExpr(source string) request.Matcher {
	m, err := Expr(source)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *exprMatcher) Match(v any) (bool, error) {
	out, err := expr.Run(m.program, exprEnv{Value: v})
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (m *exprMatcher) String() string { return m.source }
