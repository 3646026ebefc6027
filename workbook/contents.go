package workbook

import (
	"strconv"

	"github.com/MasterFire41604/reactive-spreadsheet/formula"
)

// ContentsKind tags which variant a Contents value holds.
type ContentsKind string

const (
	ContentsNumber  ContentsKind = "NUMBER"
	ContentsText    ContentsKind = "TEXT"
	ContentsFormula ContentsKind = "FORMULA"
)

// Contents is the tagged union of a cell's stored intent: a number, a text
// literal, or a parsed formula. Exactly one concrete type ever satisfies
// it for a given cell; callers switch exhaustively on Kind().
type Contents interface {
	Kind() ContentsKind
	String() string
}

// NumberContents is a finite numeric literal.
type NumberContents struct{ N float64 }

func (NumberContents) Kind() ContentsKind { return ContentsNumber }
func (c NumberContents) String() string   { return strconv.FormatFloat(c.N, 'g', -1, 64) }

// TextContents is an arbitrary string; the empty string is the sentinel
// for "empty cell".
type TextContents struct{ S string }

func (TextContents) Kind() ContentsKind { return ContentsText }
func (c TextContents) String() string   { return c.S }

// FormulaContents wraps an immutable, already-validated formula.
type FormulaContents struct{ F *formula.Formula }

func (FormulaContents) Kind() ContentsKind { return ContentsFormula }
func (c FormulaContents) String() string   { return "=" + c.F.String() }
