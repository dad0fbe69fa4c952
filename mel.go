package mel

import (
	"fmt"

	"github.com/dashkit/mel/ast"
	"github.com/dashkit/mel/dataset"
	"github.com/dashkit/mel/engine"
	"github.com/dashkit/mel/parser"
)

// Expression is a parsed metric expression. It is immutable, reusable
// across datasets and safe for concurrent Evaluate calls.
type Expression struct {
	source string
	root   ast.Expr
}

// Parse lexes and parses an expression once. Callers evaluating the same
// metric over many datasets should keep the result instead of calling
// Evaluate with the source text each time.
func Parse(expression string) (*Expression, error) {
	root, err := parser.Parse(expression)
	if err != nil {
		return nil, err
	}
	return &Expression{source: expression, root: root}, nil
}

// Source returns the original expression text.
func (e *Expression) Source() string {
	return e.source
}

// Columns returns the column names the expression references, in order
// of first appearance.
func (e *Expression) Columns() []string {
	return ast.Columns(e.root)
}

// Evaluate reduces the expression to a single cell over a dataset. The
// dataset is borrowed read-only for the duration of the call.
func (e *Expression) Evaluate(ds *dataset.Dataset) (dataset.Cell, error) {
	return engine.Eval(e.root, &engine.EvalContext{Data: ds})
}

// Evaluate parses and evaluates in one step, failing with the first
// error encountered. There are no partial results.
func Evaluate(expression string, ds *dataset.Dataset) (dataset.Cell, error) {
	e, err := Parse(expression)
	if err != nil {
		return dataset.Null(), err
	}
	return e.Evaluate(ds)
}

// ValidationResult reports the outcome of a static check.
type ValidationResult struct {
	OK     bool
	Errors []string
}

// Validate statically checks an expression: it must tokenize and parse,
// and, when knownColumns is non-nil, reference only those columns.
// Function names are not checked and nothing is evaluated.
func Validate(expression string, knownColumns []string) ValidationResult {
	root, err := parser.Parse(expression)
	if err != nil {
		return ValidationResult{Errors: []string{err.Error()}}
	}
	if knownColumns == nil {
		return ValidationResult{OK: true}
	}

	known := make(map[string]bool, len(knownColumns))
	for _, c := range knownColumns {
		known[c] = true
	}
	var errs []string
	for _, col := range ast.Columns(root) {
		if !known[col] {
			errs = append(errs, fmt.Sprintf("unknown column %q", col))
		}
	}
	if len(errs) > 0 {
		return ValidationResult{Errors: errs}
	}
	return ValidationResult{OK: true}
}
