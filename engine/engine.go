// Package engine evaluates parsed metric expressions against a dataset,
// reducing them to a single scalar cell.
package engine

import (
	"math"
	"strings"

	"github.com/dashkit/mel/ast"
	"github.com/dashkit/mel/dataset"
	"github.com/dashkit/mel/melerr"
)

// EvalContext carries the dataset under evaluation and, inside per-row
// forms, the current row index. A nil Row means whole-column context.
// The dataset is borrowed read-only; evaluation never mutates it.
type EvalContext struct {
	Data *dataset.Dataset
	Row  *int
}

// Eval evaluates an expression node against a context.
func Eval(expr ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	switch e := expr.(type) {
	case *ast.NumberExpr:
		return dataset.Number(e.Value), nil
	case *ast.StringExpr:
		return dataset.Text(e.Value), nil
	case *ast.NullExpr:
		return dataset.Null(), nil
	case *ast.ColumnExpr:
		return evalColumn(e, ctx)
	case *ast.BinaryExpr:
		return evalBinary(e, ctx)
	case *ast.ComparisonExpr:
		return evalComparison(e, ctx)
	case *ast.FuncCallExpr:
		return evalFunc(e, ctx)
	default:
		return dataset.Null(), melerr.New(melerr.Parse, "unsupported expression node %T", expr)
	}
}

// evalColumn reads the cell at the row cursor, or, without a cursor, the
// first non-null cell of the column coerced to text.
func evalColumn(e *ast.ColumnExpr, ctx *EvalContext) (dataset.Cell, error) {
	idx := ctx.Data.ColIndex(e.Name)
	if idx < 0 {
		return dataset.Null(), missingColumn(e.Name, ctx.Data)
	}
	if ctx.Row != nil {
		return ctx.Data.Get(*ctx.Row, idx), nil
	}
	for _, c := range ctx.Data.Column(idx) {
		if !c.IsNull() {
			return dataset.Text(c.AsText()), nil
		}
	}
	return dataset.Text(""), nil
}

func missingColumn(name string, ds *dataset.Dataset) error {
	if len(ds.Columns) == 0 {
		return melerr.New(melerr.MissingColumn, "unknown column %q (the dataset has no columns)", name)
	}
	return melerr.New(melerr.MissingColumn, "unknown column %q. Available columns: %s", name, strings.Join(ds.Columns, ", "))
}

func evalBinary(e *ast.BinaryExpr, ctx *EvalContext) (dataset.Cell, error) {
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return dataset.Null(), err
	}

	lf, err := toNumber(left, e.Op)
	if err != nil {
		return dataset.Null(), err
	}
	rf, err := toNumber(right, e.Op)
	if err != nil {
		return dataset.Null(), err
	}

	switch e.Op {
	case "+":
		return dataset.Number(lf + rf), nil
	case "-":
		return dataset.Number(lf - rf), nil
	case "*":
		return dataset.Number(lf * rf), nil
	case "/":
		if rf == 0 {
			return dataset.Null(), melerr.New(melerr.DivisionByZero, "division by zero")
		}
		return dataset.Number(lf / rf), nil
	default:
		return dataset.Null(), melerr.New(melerr.Parse, "unknown operator %q", e.Op)
	}
}

// toNumber applies numeric coercion: numbers pass through, null counts as
// zero, and text must parse as a decimal number. A NaN operand is an
// error, though NaN results of arithmetic still propagate.
func toNumber(c dataset.Cell, op string) (float64, error) {
	if c.IsNull() {
		return 0, nil
	}
	if f, ok := c.AsFloat(); ok && !math.IsNaN(f) {
		return f, nil
	}
	return 0, melerr.New(melerr.TypeMismatch, "operand %q of %q is not numeric", c.AsText(), op)
}

// evalComparison compares as text when either side is text, numerically
// otherwise, and yields 1 or 0. Text ordering is plain code point order,
// independent of locale.
func evalComparison(e *ast.ComparisonExpr, ctx *EvalContext) (dataset.Cell, error) {
	left, err := Eval(e.Left, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	right, err := Eval(e.Right, ctx)
	if err != nil {
		return dataset.Null(), err
	}

	var cmp int
	if left.Kind == dataset.KindText || right.Kind == dataset.KindText {
		cmp = strings.Compare(left.AsText(), right.AsText())
	} else {
		// Both sides are numbers or null; null coerces to zero.
		lf, rf := left.Num, right.Num
		if math.IsNaN(lf) || math.IsNaN(rf) {
			return dataset.Null(), melerr.New(melerr.TypeMismatch, "cannot compare %s with %s", left, right)
		}
		if lf < rf {
			cmp = -1
		} else if lf > rf {
			cmp = 1
		}
	}

	if cmpResult(e.Op, cmp) {
		return dataset.Number(1), nil
	}
	return dataset.Number(0), nil
}

func cmpResult(op string, cmp int) bool {
	switch op {
	case "==", "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	}
	return false
}

// isTruthy decides IF conditions: null is falsy, numbers are truthy when
// non-zero and not NaN, text is truthy when non-empty.
func isTruthy(c dataset.Cell) bool {
	switch c.Kind {
	case dataset.KindNumber:
		return c.Num != 0 && !math.IsNaN(c.Num)
	case dataset.KindText:
		return c.Str != ""
	default:
		return false
	}
}
