package mock

import (
	"errors"
	"testing"
)

func TestMatchers(t *testing.T) {
	re, err := Regexp(`^[a-f0-9]{8}$`)
	if err != nil {
		t.Fatalf("Regexp returned error: %v", err)
	}

	tt := []struct {
		name    string
		matcher interface {
			Match(any) (bool, error)
		}
		value any
		want  bool
	}{
		{"match func", Match(func(v any) bool { return v == "a" }), "a", true},
		{"any accepts values", Any(), 0, true},
		{"any rejects nil", Any(), nil, false},
		{"one of", OneOf("a", 2), 2, true},
		{"one of rejects", OneOf("a", 2), "2", false},
		{"regexp", re, "deadbeef", true},
		{"regexp formats numbers", re, 12345678, true},
		{"regexp rejects nil", re, nil, false},
		{"expr", MustExpr(`value > 40`), 42, true},
		{"expr rejects", MustExpr(`value > 40`), 7, false},
		{"expr strings", MustExpr(`value startsWith "usr_"`), "usr_1", true},
		{"expr nil guard", MustExpr(`value != nil && value > 40`), nil, false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.matcher.Match(tc.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("want %v got %v", tc.want, got)
			}
		})
	}
}

func TestMatcherErrors(t *testing.T) {
	t.Run("invalid regexp", func(t *testing.T) {
		if _, err := Regexp(`(`); !errors.Is(err, ErrInvalidMatcher) {
			t.Fatalf("expected ErrInvalidMatcher, got %v", err)
		}
	})

	t.Run("invalid expression", func(t *testing.T) {
		if _, err := Expr(`value >`); !errors.Is(err, ErrInvalidMatcher) {
			t.Fatalf("expected ErrInvalidMatcher, got %v", err)
		}
	})

	t.Run("non boolean expression", func(t *testing.T) {
		if _, err := Expr(`"text"`); !errors.Is(err, ErrInvalidMatcher) {
			t.Fatalf("expected ErrInvalidMatcher, got %v", err)
		}
	})

	t.Run("MustExpr panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected a panic")
			}
		}()
		MustExpr(`value >`)
	})

	t.Run("untyped comparisons compile", func(t *testing.T) {
		m, err := Expr(`value > 40`)
		if err != nil {
			t.Fatalf("Expr returned error: %v", err)
		}
		if ok, err := m.Match(41); err != nil || !ok {
			t.Fatalf("expected 41 to match, got %v, %v", ok, err)
		}
		if _, err := m.Match(nil); err == nil {
			t.Fatal("expected comparing nil to fail at evaluation")
		}
	})

	t.Run("runtime error is returned", func(t *testing.T) {
		m := MustExpr(`value > 40`)
		if _, err := m.Match("text"); err == nil {
			t.Fatal("expected an evaluation error")
		}
	})
}
