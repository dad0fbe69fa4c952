package parser

import (
	"testing"

	"github.com/dashkit/mel/ast"
	"github.com/dashkit/mel/melerr"
)

func mustParse(t *testing.T, input string) ast.Expr {
	t.Helper()
	expr, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return expr
}

func assertParseError(t *testing.T, input string, kind melerr.Kind) {
	t.Helper()
	_, err := Parse(input)
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, want %s", input, kind)
	}
	if got, ok := melerr.KindOf(err); !ok || got != kind {
		t.Errorf("Parse(%q) error = %v, want kind %s", input, err, kind)
	}
}

func asNumber(t *testing.T, e ast.Expr, want float64) {
	t.Helper()
	n, ok := e.(*ast.NumberExpr)
	if !ok {
		t.Fatalf("expected NumberExpr, got %T", e)
	}
	if n.Value != want {
		t.Errorf("NumberExpr value = %v, want %v", n.Value, want)
	}
}

func TestParseLiterals(t *testing.T) {
	asNumber(t, mustParse(t, "42"), 42)
	asNumber(t, mustParse(t, "-5"), -5)

	s, ok := mustParse(t, `'US'`).(*ast.StringExpr)
	if !ok || s.Value != "US" {
		t.Errorf("Parse('US') = %#v, want StringExpr US", s)
	}

	if _, ok := mustParse(t, "NULL").(*ast.NullExpr); !ok {
		t.Error("Parse(NULL) did not yield NullExpr")
	}
	if _, ok := mustParse(t, "null").(*ast.NullExpr); !ok {
		t.Error("Parse(null) did not yield NullExpr")
	}
}

func TestParseColumnReference(t *testing.T) {
	col, ok := mustParse(t, "revenue").(*ast.ColumnExpr)
	if !ok {
		t.Fatalf("expected ColumnExpr")
	}
	if col.Name != "revenue" {
		t.Errorf("column name = %q, want revenue", col.Name)
	}

	// NULL is reserved even in mixed case; nullable is a column.
	if _, ok := mustParse(t, "nullable").(*ast.ColumnExpr); !ok {
		t.Error("Parse(nullable) did not yield ColumnExpr")
	}
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 groups the multiplication first.
	bin, ok := mustParse(t, "1 + 2 * 3").(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level +, got %#v", bin)
	}
	asNumber(t, bin.Left, 1)
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != "*" {
		t.Fatalf("expected * on the right, got %#v", bin.Right)
	}
	asNumber(t, right.Left, 2)
	asNumber(t, right.Right, 3)
}

func TestParseLeftAssociativity(t *testing.T) {
	// 10 - 3 - 2 is (10 - 3) - 2.
	bin, ok := mustParse(t, "10 - 3 - 2").(*ast.BinaryExpr)
	if !ok || bin.Op != "-" {
		t.Fatalf("expected top-level -, got %#v", bin)
	}
	left, ok := bin.Left.(*ast.BinaryExpr)
	if !ok || left.Op != "-" {
		t.Fatalf("expected - on the left, got %#v", bin.Left)
	}
	asNumber(t, left.Left, 10)
	asNumber(t, left.Right, 3)
	asNumber(t, bin.Right, 2)
}

func TestParseParens(t *testing.T) {
	bin, ok := mustParse(t, "(1 + 2) * 3").(*ast.BinaryExpr)
	if !ok || bin.Op != "*" {
		t.Fatalf("expected top-level *, got %#v", bin)
	}
	left, ok := bin.Left.(*ast.BinaryExpr)
	if !ok || left.Op != "+" {
		t.Fatalf("expected + inside parens, got %#v", bin.Left)
	}
	asNumber(t, left.Left, 1)
	asNumber(t, left.Right, 2)
}

func TestParseComparison(t *testing.T) {
	cmp, ok := mustParse(t, "SUM(a) > 100").(*ast.ComparisonExpr)
	if !ok || cmp.Op != ">" {
		t.Fatalf("expected ComparisonExpr >, got %#v", cmp)
	}
	call, ok := cmp.Left.(*ast.FuncCallExpr)
	if !ok || call.Name != "SUM" {
		t.Fatalf("expected SUM call on the left, got %#v", cmp.Left)
	}
	asNumber(t, cmp.Right, 100)

	// Comparison binds loosest: a + 1 > b * 2 compares the two sides.
	cmp2, ok := mustParse(t, "a + 1 > b * 2").(*ast.ComparisonExpr)
	if !ok {
		t.Fatalf("expected ComparisonExpr")
	}
	if _, ok := cmp2.Left.(*ast.BinaryExpr); !ok {
		t.Errorf("left side of comparison is %T, want BinaryExpr", cmp2.Left)
	}
	if _, ok := cmp2.Right.(*ast.BinaryExpr); !ok {
		t.Errorf("right side of comparison is %T, want BinaryExpr", cmp2.Right)
	}
}

func TestParseComparisonDoesNotChain(t *testing.T) {
	assertParseError(t, "1 < 2 < 3", melerr.Parse)
	assertParseError(t, "a == b == c", melerr.Parse)

	// Parenthesized, the left comparison becomes an operand.
	cmp, ok := mustParse(t, "(1 < 2) < 3").(*ast.ComparisonExpr)
	if !ok {
		t.Fatalf("expected ComparisonExpr")
	}
	if _, ok := cmp.Left.(*ast.ComparisonExpr); !ok {
		t.Errorf("left side is %T, want nested ComparisonExpr", cmp.Left)
	}
}

func TestParseFuncNameFolding(t *testing.T) {
	for _, input := range []string{"sum(a)", "Sum(a)", "SUM(a)"} {
		call, ok := mustParse(t, input).(*ast.FuncCallExpr)
		if !ok {
			t.Fatalf("Parse(%q) did not yield FuncCallExpr", input)
		}
		if call.Name != "SUM" {
			t.Errorf("Parse(%q) name = %q, want SUM", input, call.Name)
		}
	}
}

func TestParseFuncCallWithSpace(t *testing.T) {
	// Whitespace between name and ( is irrelevant.
	if _, ok := mustParse(t, "SUM (a)").(*ast.FuncCallExpr); !ok {
		t.Error("Parse(SUM (a)) did not yield FuncCallExpr")
	}
}

func TestParseNullPlaceholderArgs(t *testing.T) {
	cases := map[string][]string{
		"IF(a, 1, )":  {"column", "number", "null"},
		"IF(, 1, 2)":  {"null", "number", "number"},
		"IF(a, , 2)":  {"column", "null", "number"},
		"COUNT()":     {},
		"IF(,)":       {"null", "null"},
		"IF(a, 1, 2)": {"column", "number", "number"},
	}
	for input, shapes := range cases {
		call, ok := mustParse(t, input).(*ast.FuncCallExpr)
		if !ok {
			t.Fatalf("Parse(%q) did not yield FuncCallExpr", input)
		}
		if len(call.Args) != len(shapes) {
			t.Fatalf("Parse(%q) has %d args, want %d", input, len(call.Args), len(shapes))
		}
		for i, shape := range shapes {
			var got string
			switch call.Args[i].(type) {
			case *ast.NullExpr:
				got = "null"
			case *ast.NumberExpr:
				got = "number"
			case *ast.ColumnExpr:
				got = "column"
			default:
				got = "other"
			}
			if got != shape {
				t.Errorf("Parse(%q) arg %d is %s, want %s", input, i, got, shape)
			}
		}
	}
}

func TestParseNestedCalls(t *testing.T) {
	call, ok := mustParse(t, "IF(COUNT(a) > 0, MEAN(a), )").(*ast.FuncCallExpr)
	if !ok || call.Name != "IF" {
		t.Fatalf("expected IF call, got %#v", call)
	}
	if _, ok := call.Args[0].(*ast.ComparisonExpr); !ok {
		t.Errorf("first arg is %T, want ComparisonExpr", call.Args[0])
	}
	if _, ok := call.Args[2].(*ast.NullExpr); !ok {
		t.Errorf("third arg is %T, want NullExpr", call.Args[2])
	}
}

func TestParseErrors(t *testing.T) {
	assertParseError(t, "", melerr.Parse)
	assertParseError(t, "1 2", melerr.Parse)
	assertParseError(t, "(1 + 2", melerr.Parse)
	assertParseError(t, "SUM(a", melerr.Parse)
	assertParseError(t, "SUM(a))", melerr.Parse)
	assertParseError(t, "1 +", melerr.Parse)
	assertParseError(t, "* 2", melerr.Parse)
	assertParseError(t, "IF(x, -5, 2)", melerr.Parse)

	// Lexer errors pass through with their own kinds.
	assertParseError(t, "a @ b", melerr.UnexpectedChar)
	assertParseError(t, "'abc", melerr.UnclosedString)
}

func TestParseColumns(t *testing.T) {
	expr := mustParse(t, "SUM(revenue) / COUNT_DISTINCT(IF(active > 0, user_id, NULL)) + MEAN(revenue)")
	got := ast.Columns(expr)
	want := []string{"revenue", "active", "user_id"}
	if len(got) != len(want) {
		t.Fatalf("Columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
