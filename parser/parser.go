package parser

import (
	"strings"

	"github.com/dashkit/mel/ast"
	"github.com/dashkit/mel/lexer"
	"github.com/dashkit/mel/melerr"
)

// Parser converts a token stream into an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse lexes and parses a full metric expression. The whole input must
// be consumed; tokens left over after the expression are an error.
func Parse(input string) (ast.Expr, error) {
	tokens, err := lexer.Lex(input)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens, pos: 0}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != lexer.TokenEOF {
		return nil, melerr.NewAt(melerr.Parse, tok.Pos, "unexpected token %s (%q) after expression", tok.Type, tok.Val)
	}
	return expr, nil
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, melerr.NewAt(melerr.Parse, tok.Pos, "expected %s, got %s (%q)", tt, tok.Type, tok.Val)
	}
	return tok, nil
}

// parseExpression is the entry point of the grammar:
//
//	expression     := comparison
//	comparison     := additive ( COMPARISON additive )?
//	additive       := multiplicative ( ('+' | '-') multiplicative )*
//	multiplicative := primary ( ('*' | '/') primary )*
//	primary        := NUMBER | STRING | funcOrColumn | '(' expression ')'
//
// A comparison does not chain; a second comparison operator is left in
// the stream and rejected by the caller.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.peek().Type == lexer.TokenComparison {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.ComparisonExpr{Op: op.Val, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == lexer.TokenPlus || p.peek().Type == lexer.TokenMinus {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Val, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == lexer.TokenStar || p.peek().Type == lexer.TokenSlash {
		op := p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op.Val, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		return &ast.NumberExpr{Value: tok.Num}, nil

	case lexer.TokenString:
		p.advance()
		return &ast.StringExpr{Value: tok.Val}, nil

	case lexer.TokenIdent:
		p.advance()
		// A ( directly after the identifier commits to a function call.
		if p.peek().Type == lexer.TokenLParen {
			return p.parseFuncCall(tok)
		}
		if strings.EqualFold(tok.Val, "NULL") {
			return &ast.NullExpr{}, nil
		}
		return &ast.ColumnExpr{Name: tok.Val}, nil

	case lexer.TokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, melerr.NewAt(melerr.Parse, tok.Pos, "unexpected token %s (%q) in expression", tok.Type, tok.Val)
	}
}

// parseFuncCall parses the argument list after a function name. An absent
// argument between commas, before the first comma or after the last one
// is a null placeholder, so IF(cond, x, ) passes null on the else branch.
func (p *Parser) parseFuncCall(nameTok lexer.Token) (ast.Expr, error) {
	p.advance() // consume (
	name := strings.ToUpper(nameTok.Val)

	var args []ast.Expr
	for p.peek().Type != lexer.TokenRParen && p.peek().Type != lexer.TokenEOF {
		if p.peek().Type == lexer.TokenComma {
			args = append(args, &ast.NullExpr{})
			p.advance()
			if p.peek().Type == lexer.TokenRParen {
				args = append(args, &ast.NullExpr{})
			}
			continue
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Type != lexer.TokenComma {
			break
		}
		p.advance() // consume comma
		if p.peek().Type == lexer.TokenRParen {
			args = append(args, &ast.NullExpr{})
		}
	}

	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}

	return &ast.FuncCallExpr{Name: name, Args: args}, nil
}
