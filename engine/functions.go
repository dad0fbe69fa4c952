package engine

import (
	"sort"
	"strings"

	"github.com/dashkit/mel/ast"
	"github.com/dashkit/mel/dataset"
	"github.com/dashkit/mel/melerr"
)

// builtin implements one function. name is the canonical upper-case form
// used in error messages.
type builtin func(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error)

// builtins is the closed registry of functions. Aliases are extra keys
// pointing at the same implementation; the map is never mutated after
// package init. It is populated in init rather than a var initializer so
// that implementations may refer back to Eval without an init cycle.
var builtins map[string]builtin

var supportedNames []string

func init() {
	builtins = map[string]builtin{
		"MEAN":           callMean,
		"AVG":            callMean,
		"AVERAGE":        callMean,
		"SUM":            callSum,
		"MIN":            callMin,
		"MINIMUM":        callMin,
		"MAX":            callMax,
		"MAXIMUM":        callMax,
		"STDDEV":         callStdDev,
		"STDEV":          callStdDev,
		"COUNT":          callCount,
		"COUNT_DISTINCT": callCountDistinct,
		"COUNTDISTINCT":  callCountDistinct,
		"IF":             callIf,
		"TEXT":           callText,
		"FIRST_TEXT":     callText,
	}

	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	supportedNames = names
}

// evalFunc dispatches a function call to its implementation. Lookup is
// case-insensitive.
func evalFunc(e *ast.FuncCallExpr, ctx *EvalContext) (dataset.Cell, error) {
	name := strings.ToUpper(e.Name)
	fn, ok := builtins[name]
	if !ok {
		return dataset.Null(), melerr.New(melerr.UnknownFunction,
			"unknown function %q. Supported functions: %s", e.Name, strings.Join(supportedNames, ", "))
	}
	return fn(name, e.Args, ctx)
}

// getColumnCells resolves the single bare column-reference argument the
// column aggregators require and returns the column's cells, one per row.
func getColumnCells(name string, args []ast.Expr, ctx *EvalContext) (string, []dataset.Cell, error) {
	if len(args) != 1 {
		return "", nil, melerr.New(melerr.InvalidArgument, "%s takes 1 argument, got %d", name, len(args))
	}
	colExpr, ok := args[0].(*ast.ColumnExpr)
	if !ok {
		return "", nil, melerr.New(melerr.InvalidArgument,
			"%s expects a column name as its argument. Available columns: %s", name, strings.Join(ctx.Data.Columns, ", "))
	}
	idx := ctx.Data.ColIndex(colExpr.Name)
	if idx < 0 {
		return "", nil, missingColumn(colExpr.Name, ctx.Data)
	}
	return colExpr.Name, ctx.Data.Column(idx), nil
}

func emptyColumn(name, col string) error {
	return melerr.New(melerr.EmptyColumn, "%s: column %q has no numeric cells", name, col)
}

func callMean(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	col, cells, err := getColumnCells(name, args, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	nums := numericValues(cells)
	if len(nums) == 0 {
		return dataset.Null(), emptyColumn(name, col)
	}
	return dataset.Number(round4(meanOf(nums))), nil
}

func callSum(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	col, cells, err := getColumnCells(name, args, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	nums := numericValues(cells)
	if len(nums) == 0 {
		return dataset.Null(), emptyColumn(name, col)
	}
	return dataset.Number(round4(sumOf(nums))), nil
}

func callMin(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	col, cells, err := getColumnCells(name, args, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	nums := numericValues(cells)
	if len(nums) == 0 {
		return dataset.Null(), emptyColumn(name, col)
	}
	return dataset.Number(minOf(nums)), nil
}

func callMax(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	col, cells, err := getColumnCells(name, args, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	nums := numericValues(cells)
	if len(nums) == 0 {
		return dataset.Null(), emptyColumn(name, col)
	}
	return dataset.Number(maxOf(nums)), nil
}

func callStdDev(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	col, cells, err := getColumnCells(name, args, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	nums := numericValues(cells)
	if len(nums) == 0 {
		return dataset.Null(), emptyColumn(name, col)
	}
	return dataset.Number(round4(stdDevOf(nums))), nil
}

// callCount counts non-null cells whether or not they are numeric, unlike
// the numeric aggregators.
func callCount(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	_, cells, err := getColumnCells(name, args, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	return dataset.Number(float64(countNonNull(cells))), nil
}

// callCountDistinct counts distinct non-null values. A bare column
// reference reduces the column directly; any other argument is evaluated
// once per row with that row as the cursor.
func callCountDistinct(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	if len(args) != 1 {
		return dataset.Null(), melerr.New(melerr.InvalidArgument, "%s takes 1 argument, got %d", name, len(args))
	}

	if colExpr, ok := args[0].(*ast.ColumnExpr); ok {
		idx := ctx.Data.ColIndex(colExpr.Name)
		if idx < 0 {
			return dataset.Null(), missingColumn(colExpr.Name, ctx.Data)
		}
		return dataset.Number(float64(distinctCount(ctx.Data.Column(idx)))), nil
	}

	seen := make(map[string]struct{})
	for i := 0; i < ctx.Data.NumRows(); i++ {
		row := i
		v, err := Eval(args[0], &EvalContext{Data: ctx.Data, Row: &row})
		if err != nil {
			return dataset.Null(), err
		}
		if v.IsNull() {
			continue
		}
		seen[v.AsText()] = struct{}{}
	}
	return dataset.Number(float64(len(seen))), nil
}

// callIf evaluates the condition and then only the branch it selects, so
// errors in the untaken branch never surface. A missing else yields null.
// The row cursor, when present, flows into all three arguments.
func callIf(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	if len(args) < 2 || len(args) > 3 {
		return dataset.Null(), melerr.New(melerr.InvalidArgument, "%s takes 2 or 3 arguments, got %d", name, len(args))
	}
	cond, err := Eval(args[0], ctx)
	if err != nil {
		return dataset.Null(), err
	}
	if isTruthy(cond) {
		return Eval(args[1], ctx)
	}
	if len(args) == 3 {
		return Eval(args[2], ctx)
	}
	return dataset.Null(), nil
}

// callText returns the raw cell at the row cursor, or the first non-null
// cell of the column as text when there is no cursor.
func callText(name string, args []ast.Expr, ctx *EvalContext) (dataset.Cell, error) {
	_, cells, err := getColumnCells(name, args, ctx)
	if err != nil {
		return dataset.Null(), err
	}
	if ctx.Row != nil {
		r := *ctx.Row
		if r < 0 || r >= len(cells) {
			return dataset.Null(), nil
		}
		return cells[r], nil
	}
	for _, c := range cells {
		if !c.IsNull() {
			return dataset.Text(c.AsText()), nil
		}
	}
	return dataset.Text(""), nil
}
