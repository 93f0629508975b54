package pricing

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrFormula is wrapped by every formula evaluation failure.
var ErrFormula = errors.New("invalid formula")

// resultToken matches a standalone "N" (the result variable) on the right-hand side.
var resultToken = regexp.MustCompile(`\bN\b`)

// maxFormulaValue bounds results so that the int conversion cannot overflow.
const maxFormulaValue = 1 << 52

// EvalFormula evaluates an offer formula for base price c.
//
// The formula is "N = <expr>" or just "<expr>", where C stands for the base
// price. Only numeric literals, the variable C, unary +/-, the binary
// operators + - * / and parentheses are accepted; anything else, including
// division by zero, is an error wrapping ErrFormula.
func EvalFormula(formula string, c int) (float64, error) {
	expr := strings.TrimSpace(formula)
	if i := strings.Index(expr, "="); i >= 0 {
		expr = expr[i+1:]
	}
	expr = strings.TrimSpace(resultToken.ReplaceAllString(expr, ""))
	if expr == "" {
		return 0, fmt.Errorf("%w: empty expression", ErrFormula)
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFormula, err)
	}

	v, err := evalNode(node, float64(c))
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxFormulaValue {
		return 0, fmt.Errorf("%w: result out of range", ErrFormula)
	}
	return v, nil
}

// ApplyFormula evaluates formula for base and rounds half to even.
// ok is false when the formula could not be evaluated, in which case the
// base price is returned unchanged.
func ApplyFormula(formula string, base int) (price int, ok bool) {
	v, err := EvalFormula(formula, base)
	if err != nil {
		return base, false
	}
	return int(math.RoundToEven(v)), true
}

func evalNode(n ast.Expr, c float64) (float64, error) {
	switch n := n.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return 0, fmt.Errorf("%w: unexpected literal %s", ErrFormula, n.Value)
		}
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrFormula, err)
		}
		return v, nil

	case *ast.Ident:
		if n.Name != "C" {
			return 0, fmt.Errorf("%w: unknown identifier %q", ErrFormula, n.Name)
		}
		return c, nil

	case *ast.ParenExpr:
		return evalNode(n.X, c)

	case *ast.UnaryExpr:
		x, err := evalNode(n.X, c)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return x, nil
		case token.SUB:
			return -x, nil
		}
		return 0, fmt.Errorf("%w: unsupported operator %s", ErrFormula, n.Op)

	case *ast.BinaryExpr:
		x, err := evalNode(n.X, c)
		if err != nil {
			return 0, err
		}
		y, err := evalNode(n.Y, c)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return x + y, nil
		case token.SUB:
			return x - y, nil
		case token.MUL:
			return x * y, nil
		case token.QUO:
			if y == 0 {
				return 0, fmt.Errorf("%w: division by zero", ErrFormula)
			}
			return x / y, nil
		}
		return 0, fmt.Errorf("%w: unsupported operator %s", ErrFormula, n.Op)
	}
	return 0, fmt.Errorf("%w: unsupported expression %T", ErrFormula, n)
}
