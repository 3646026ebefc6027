// Package formula parses, validates, normalizes, and evaluates infix
// arithmetic expressions over +, -, *, /, parentheses, non-negative
// numeric literals, and variable references.
package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MasterFire41604/reactive-spreadsheet/names"
	"github.com/MasterFire41604/reactive-spreadsheet/token"
	"github.com/MasterFire41604/reactive-spreadsheet/tokenizer"
)

// FormatError reports that formula source text failed to tokenize,
// syntactically validate, or normalize during construction.
type FormatError struct {
	Source string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formula format error in %q: %s", e.Source, e.Reason)
}

// FormulaError is the runtime evaluation failure value described by the
// engine's error taxonomy: divide-by-zero or an undefined variable. It is
// never returned as a Go error from Evaluate — it is the non-nil *second*
// return value that callers store as a cell's value, the way a failed
// Evaluate is meant to be recorded and propagated rather than raised.
type FormulaError struct {
	Reason string
}

func (e *FormulaError) String() string {
	return e.Reason
}

// Lookup resolves a variable's current numeric value. ok is false for an
// undefined variable.
type Lookup func(name string) (value float64, ok bool)

// evalTok is the internal, already-normalized representation of one
// formula token, kept around after construction so Evaluate never
// re-tokenizes or re-validates.
type evalTok struct {
	kind token.Type // token.NUM, token.VAR, an operator, or paren
	num  float64    // valid when kind == token.NUM
	name string     // valid when kind == token.VAR (already normalized)
}

// Formula is an immutable, validated, normalized arithmetic expression.
type Formula struct {
	canonical string
	variables []string
	toks      []evalTok
}

// New tokenizes, validates, and normalizes source, returning an immutable
// Formula or a *FormatError describing the first problem found.
//
// normalize and validate implement the shared cell/variable name policy
// (see package names): every variable token is replaced by
// normalize(token), which must itself satisfy the base name pattern and
// validate, or construction fails.
func New(source string, normalize names.Normalizer, validate names.Validator) (*Formula, error) {
	toks := tokenizer.Tokens(source)
	if len(toks) == 0 {
		return nil, &FormatError{Source: source, Reason: "empty formula"}
	}

	var canon strings.Builder
	var toksOut []evalTok
	var variables []string
	seen := make(map[string]struct{})

	depth := 0
	needOperand := true

	for _, tok := range toks {
		switch tok.Type {
		case token.ILLEGAL:
			return nil, &FormatError{Source: source, Reason: fmt.Sprintf("unrecognized character %q", tok.Literal)}

		case token.NUM:
			if !needOperand {
				return nil, &FormatError{Source: source, Reason: "unexpected number " + tok.Literal}
			}
			f, err := strconv.ParseFloat(tok.Literal, 64)
			if err != nil {
				return nil, &FormatError{Source: source, Reason: "invalid number " + tok.Literal}
			}
			rendered := strconv.FormatFloat(f, 'g', -1, 64)
			canon.WriteString(rendered)
			toksOut = append(toksOut, evalTok{kind: token.NUM, num: f})
			needOperand = false

		case token.VAR:
			if !needOperand {
				return nil, &FormatError{Source: source, Reason: "unexpected variable " + tok.Literal}
			}
			normalized := normalize(tok.Literal)
			if !names.Valid(normalized) || !validate(normalized) {
				return nil, &FormatError{Source: source, Reason: "invalid variable name " + tok.Literal}
			}
			canon.WriteString(normalized)
			toksOut = append(toksOut, evalTok{kind: token.VAR, name: normalized})
			if _, ok := seen[normalized]; !ok {
				seen[normalized] = struct{}{}
				variables = append(variables, normalized)
			}
			needOperand = false

		case token.LPAREN:
			if !needOperand {
				return nil, &FormatError{Source: source, Reason: "unexpected '('"}
			}
			depth++
			canon.WriteString("(")
			toksOut = append(toksOut, evalTok{kind: token.LPAREN})
			needOperand = true

		case token.RPAREN:
			if needOperand {
				return nil, &FormatError{Source: source, Reason: "unexpected ')'"}
			}
			depth--
			if depth < 0 {
				return nil, &FormatError{Source: source, Reason: "unbalanced parentheses"}
			}
			canon.WriteString(")")
			toksOut = append(toksOut, evalTok{kind: token.RPAREN})
			needOperand = false

		default: // binary operator
			if needOperand {
				return nil, &FormatError{Source: source, Reason: "unexpected operator " + tok.Literal}
			}
			canon.WriteString(string(tok.Type))
			toksOut = append(toksOut, evalTok{kind: tok.Type})
			needOperand = true
		}
	}

	if depth != 0 {
		return nil, &FormatError{Source: source, Reason: "unbalanced parentheses"}
	}
	if needOperand {
		return nil, &FormatError{Source: source, Reason: "formula ends with an operator or '('"}
	}

	return &Formula{
		canonical: canon.String(),
		variables: variables,
		toks:      toksOut,
	}, nil
}

// String returns the canonical, whitespace-free form used for equality and
// hashing.
func (f *Formula) String() string { return f.canonical }

// Equals reports whether two formulas have byte-equal canonical forms.
func (f *Formula) Equals(other *Formula) bool {
	if other == nil {
		return false
	}
	return f.canonical == other.canonical
}

// Variables returns the distinct normalized variable names referenced by f,
// in first-occurrence order. The caller must not mutate the result.
func (f *Formula) Variables() []string { return f.variables }

func apply(left float64, op token.Type, right float64) (float64, *FormulaError) {
	switch op {
	case token.PLUS:
		return left + right, nil
	case token.MINUS:
		return left - right, nil
	case token.STAR:
		return left * right, nil
	case token.SLASH:
		if right == 0 {
			return 0, &FormulaError{Reason: "division by zero"}
		}
		return left / right, nil
	default:
		return 0, &FormulaError{Reason: "unknown operator " + string(op)}
	}
}

// Evaluate runs the classical two-stack infix evaluator against lookup. A
// non-nil *FormulaError result (never a Go error) means evaluation failed
// because of an undefined variable or a division by zero; it is meant to
// be stored as the cell's value, not returned to a caller as an error.
func (f *Formula) Evaluate(lookup Lookup) (float64, *FormulaError) {
	var vals []float64
	var ops []token.Type

	reduce := func() *FormulaError {
		n := len(ops)
		op := ops[n-1]
		ops = ops[:n-1]
		m := len(vals)
		right, left := vals[m-1], vals[m-2]
		vals = vals[:m-2]
		result, ferr := apply(left, op, right)
		if ferr != nil {
			return ferr
		}
		vals = append(vals, result)
		return nil
	}

	for _, tok := range f.toks {
		switch tok.kind {
		case token.NUM, token.VAR:
			value := tok.num
			if tok.kind == token.VAR {
				v, ok := lookup(tok.name)
				if !ok {
					return 0, &FormulaError{Reason: "undefined variable " + tok.name}
				}
				value = v
			}
			if len(ops) > 0 && (ops[len(ops)-1] == token.STAR || ops[len(ops)-1] == token.SLASH) {
				m := len(vals)
				left := vals[m-1]
				vals = vals[:m-1]
				op := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				result, ferr := apply(left, op, value)
				if ferr != nil {
					return 0, ferr
				}
				vals = append(vals, result)
			} else {
				vals = append(vals, value)
			}

		case token.PLUS, token.MINUS:
			if len(ops) > 0 && (ops[len(ops)-1] == token.PLUS || ops[len(ops)-1] == token.MINUS) {
				if ferr := reduce(); ferr != nil {
					return 0, ferr
				}
			}
			ops = append(ops, tok.kind)

		case token.STAR, token.SLASH:
			ops = append(ops, tok.kind)

		case token.LPAREN:
			ops = append(ops, tok.kind)

		case token.RPAREN:
			if len(ops) > 0 && (ops[len(ops)-1] == token.PLUS || ops[len(ops)-1] == token.MINUS) {
				if ferr := reduce(); ferr != nil {
					return 0, ferr
				}
			}
			ops = ops[:len(ops)-1] // pop the matching '('
			if len(ops) > 0 && (ops[len(ops)-1] == token.STAR || ops[len(ops)-1] == token.SLASH) {
				if ferr := reduce(); ferr != nil {
					return 0, ferr
				}
			}
		}
	}

	if len(ops) > 0 {
		if ferr := reduce(); ferr != nil {
			return 0, ferr
		}
	}

	return vals[0], nil
}
