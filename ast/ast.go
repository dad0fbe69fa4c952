package ast

// Expr represents a node in a parsed metric expression tree.
type Expr interface {
	exprNode()
}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	Value float64
}

func (e *NumberExpr) exprNode() {}

// StringExpr is a string literal with escapes already decoded.
type StringExpr struct {
	Value string
}

func (e *StringExpr) exprNode() {}

// NullExpr is the null literal, written NULL or left implicit by an empty
// argument slot.
type NullExpr struct{}

func (e *NullExpr) exprNode() {}

// ColumnExpr references a dataset column by name.
type ColumnExpr struct {
	Name string
}

func (e *ColumnExpr) exprNode() {}

// FuncCallExpr represents a call to a built-in function. Name is stored
// upper-case; lookup is case-insensitive.
type FuncCallExpr struct {
	Name string
	Args []Expr
}

func (e *FuncCallExpr) exprNode() {}

// BinaryExpr represents an arithmetic operation: a op b.
type BinaryExpr struct {
	Op    string // +, -, *, /
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) exprNode() {}

// ComparisonExpr represents a comparison yielding 1 or 0.
type ComparisonExpr struct {
	Op    string // >, <, >=, <=, ==, !=, =
	Left  Expr
	Right Expr
}

func (e *ComparisonExpr) exprNode() {}

// Columns returns the distinct column names referenced anywhere in the
// expression, in order of first appearance.
func Columns(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *ColumnExpr:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *FuncCallExpr:
			for _, arg := range n.Args {
				walk(arg)
			}
		case *BinaryExpr:
			walk(n.Left)
			walk(n.Right)
		case *ComparisonExpr:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return names
}
