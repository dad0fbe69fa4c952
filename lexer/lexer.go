package lexer

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/dashkit/mel/melerr"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenNumber     TokenType = iota // numeric literal
	TokenString                      // quoted string literal
	TokenIdent                       // identifier (column or function name)
	TokenComparison                  // > < >= <= == != =
	TokenPlus                        // +
	TokenMinus                       // -
	TokenStar                        // *
	TokenSlash                       // /
	TokenLParen                      // (
	TokenRParen                      // )
	TokenComma                       // ,
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenNumber: "NUMBER", TokenString: "STRING", TokenIdent: "IDENT",
	TokenComparison: "COMPARISON",
	TokenPlus:       "+", TokenMinus: "-", TokenStar: "*", TokenSlash: "/",
	TokenLParen: "(", TokenRParen: ")", TokenComma: ",",
	TokenEOF: "EOF",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// Token represents a single lexical token. Pos is the offset of the
// token's first character in the input, counted in runes. Number tokens
// carry their parsed value in Num alongside the raw text in Val.
type Token struct {
	Type TokenType
	Val  string
	Num  float64
	Pos  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Type, t.Val, t.Pos)
}

// Lex tokenizes the input string into a slice of Tokens.
func Lex(input string) ([]Token, error) {
	var tokens []Token
	runes := []rune(input)
	i := 0

	for i < len(runes) {
		ch := runes[i]

		// Skip whitespace
		if unicode.IsSpace(ch) {
			i++
			continue
		}

		pos := i
		switch ch {
		case '(':
			tokens = append(tokens, Token{Type: TokenLParen, Val: "(", Pos: pos})
			i++
			continue
		case ')':
			tokens = append(tokens, Token{Type: TokenRParen, Val: ")", Pos: pos})
			i++
			continue
		case ',':
			tokens = append(tokens, Token{Type: TokenComma, Val: ",", Pos: pos})
			i++
			continue
		case '+':
			tokens = append(tokens, Token{Type: TokenPlus, Val: "+", Pos: pos})
			i++
			continue
		case '-':
			// Part of a numeric literal only in negative context and when a
			// digit follows; otherwise the subtraction operator.
			if i+1 < len(runes) && isDigit(runes[i+1]) && isNegativeContext(tokens) {
				tok, newI, err := lexNumber(runes, i)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, tok)
				i = newI
				continue
			}
			tokens = append(tokens, Token{Type: TokenMinus, Val: "-", Pos: pos})
			i++
			continue
		case '*':
			tokens = append(tokens, Token{Type: TokenStar, Val: "*", Pos: pos})
			i++
			continue
		case '/':
			tokens = append(tokens, Token{Type: TokenSlash, Val: "/", Pos: pos})
			i++
			continue
		case '=':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{Type: TokenComparison, Val: "==", Pos: pos})
				i += 2
			} else {
				// A bare = compares for equality as well.
				tokens = append(tokens, Token{Type: TokenComparison, Val: "=", Pos: pos})
				i++
			}
			continue
		case '!':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{Type: TokenComparison, Val: "!=", Pos: pos})
				i += 2
				continue
			}
			return nil, melerr.NewAt(melerr.UnexpectedChar, pos, "unexpected character '!' (did you mean '!='?)")
		case '<':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{Type: TokenComparison, Val: "<=", Pos: pos})
				i += 2
			} else {
				tokens = append(tokens, Token{Type: TokenComparison, Val: "<", Pos: pos})
				i++
			}
			continue
		case '>':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, Token{Type: TokenComparison, Val: ">=", Pos: pos})
				i += 2
			} else {
				tokens = append(tokens, Token{Type: TokenComparison, Val: ">", Pos: pos})
				i++
			}
			continue
		}

		// String literal, single or double quoted
		if ch == '\'' || ch == '"' {
			tok, newI, err := lexString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = newI
			continue
		}

		// Number
		if isDigit(ch) {
			tok, newI, err := lexNumber(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = newI
			continue
		}

		// Identifier
		if isIdentStart(ch) {
			tok, newI := lexIdent(runes, i)
			tokens = append(tokens, tok)
			i = newI
			continue
		}

		return nil, melerr.NewAt(melerr.UnexpectedChar, pos, "unexpected character %q", string(ch))
	}

	tokens = append(tokens, Token{Type: TokenEOF, Pos: len(runes)})
	return tokens, nil
}

// isNegativeContext reports whether a minus at the current position starts
// a negative literal. Only the expression start, an opening parenthesis or
// an arithmetic operator qualifies; after a comma or a comparison the
// minus stays an operator, so negative arguments are written (-1).
func isNegativeContext(tokens []Token) bool {
	if len(tokens) == 0 {
		return true
	}
	switch tokens[len(tokens)-1].Type {
	case TokenLParen, TokenPlus, TokenMinus, TokenStar, TokenSlash:
		return true
	}
	return false
}

func lexString(runes []rune, start int) (Token, int, error) {
	quote := runes[start]
	i := start + 1
	var sb []rune
	for i < len(runes) {
		if runes[i] == '\\' && i+1 < len(runes) {
			switch runes[i+1] {
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			case '\\':
				sb = append(sb, '\\')
			case quote:
				sb = append(sb, quote)
			default:
				// Unknown escapes drop the backslash
				sb = append(sb, runes[i+1])
			}
			i += 2
			continue
		}
		if runes[i] == quote {
			return Token{Type: TokenString, Val: string(sb), Pos: start}, i + 1, nil
		}
		sb = append(sb, runes[i])
		i++
	}
	return Token{}, 0, melerr.NewAt(melerr.UnclosedString, start, "unclosed string literal starting with %s", string(quote))
}

func lexNumber(runes []rune, start int) (Token, int, error) {
	i := start

	if i < len(runes) && runes[i] == '-' {
		i++
	}

	for i < len(runes) && isDigit(runes[i]) {
		i++
	}

	// A dot joins the literal only with a digit on its right; otherwise it
	// is left for the main loop to reject.
	if i < len(runes) && runes[i] == '.' && i+1 < len(runes) && isDigit(runes[i+1]) {
		i++
		for i < len(runes) && isDigit(runes[i]) {
			i++
		}
	}

	val := string(runes[start:i])
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return Token{}, 0, melerr.NewAt(melerr.Parse, start, "invalid number %q", val)
	}
	return Token{Type: TokenNumber, Val: val, Num: num, Pos: start}, i, nil
}

func lexIdent(runes []rune, start int) (Token, int) {
	i := start
	for i < len(runes) && isIdentPart(runes[i]) {
		i++
	}
	return Token{Type: TokenIdent, Val: string(runes[start:i]), Pos: start}, i
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
