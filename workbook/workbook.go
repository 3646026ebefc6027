// Package workbook ties cell storage to a dependency graph, enforcing
// acyclicity on every mutation with rollback-on-cycle semantics and
// recomputing dependent values in topological order.
//
// The overall write pipeline — update edges, then walk dependents — is
// modeled on the teacher's on-topic SetCell/updateDependencies/
// propagateUpdates pipeline, restructured so the cycle check runs and can
// reject the write *before* anything observable changes (the teacher's
// version has no cycle detection at all) and so the dependent walk uses
// an explicit stack instead of naive recursion.
package workbook

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/MasterFire41604/reactive-spreadsheet/formula"
	"github.com/MasterFire41604/reactive-spreadsheet/graph"
	"github.com/MasterFire41604/reactive-spreadsheet/names"
	"github.com/MasterFire41604/reactive-spreadsheet/notify"
	"github.com/MasterFire41604/reactive-spreadsheet/persistence"
)

// cellRecord is the stored state for one cell: its contents, cached
// value, and the exact text the user supplied (needed to reconstruct
// contents faithfully on reload).
type cellRecord struct {
	contents   Contents
	value      Value
	sourceText string
}

// Workbook stores a named collection of cells and the dependency graph
// between their formulas.
type Workbook struct {
	cells     map[string]*cellRecord
	graph     *graph.Graph
	validate  names.Validator
	normalize names.Normalizer
	version   string
	dirty     bool
	bus       *notify.Bus
}

var emptyText = TextContents{S: ""}
var emptyValue = TextValue{S: ""}

// New returns an empty Workbook configured by opts. Defaults: accept
// every syntactically valid name, normalize to identity, version
// "default".
func New(opts ...Option) *Workbook {
	w := &Workbook{
		cells:     make(map[string]*cellRecord),
		graph:     graph.New(),
		validate:  names.DefaultValidator,
		normalize: names.IdentityNormalizer,
		version:   "default",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Version returns the workbook's version string.
func (w *Workbook) Version() string { return w.version }

// Dirty reports whether any cell has changed since the last Save.
func (w *Workbook) Dirty() bool { return w.dirty }

// GetCellContents returns the contents of the named cell. An absent or
// never-assigned cell returns TextContents{""}.
func (w *Workbook) GetCellContents(name string) (Contents, error) {
	n, ok := names.Accept(name, w.normalize, w.validate)
	if !ok {
		return nil, &InvalidNameError{Name: name}
	}
	rec, ok := w.cells[n]
	if !ok {
		return emptyText, nil
	}
	return rec.contents, nil
}

// GetCellValue returns the cached value of the named cell. An absent or
// never-assigned cell returns TextValue{""}.
func (w *Workbook) GetCellValue(name string) (Value, error) {
	n, ok := names.Accept(name, w.normalize, w.validate)
	if !ok {
		return nil, &InvalidNameError{Name: name}
	}
	rec, ok := w.cells[n]
	if !ok {
		return emptyValue, nil
	}
	return rec.value, nil
}

// GetNamesOfAllNonemptyCells returns, in no particular order, every cell
// name whose contents is not the empty text.
func (w *Workbook) GetNamesOfAllNonemptyCells() []string {
	var out []string
	for name, rec := range w.cells {
		if rec.contents.Kind() == ContentsText && rec.contents.(TextContents).S == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// DependentsOf returns the cells whose formulas directly reference name.
func (w *Workbook) DependentsOf(name string) []string {
	n, ok := names.Accept(name, w.normalize, w.validate)
	if !ok {
		return nil
	}
	return w.graph.Dependents(n)
}

// DependeesOf returns the cells name's formula directly references.
func (w *Workbook) DependeesOf(name string) []string {
	n, ok := names.Accept(name, w.normalize, w.validate)
	if !ok {
		return nil
	}
	return w.graph.Dependees(n)
}

// SetContentsOfCell is the canonical write: classify text as a number, a
// formula, or plain text, update the dependency graph, reject the write
// with a CircularReferenceError (restoring the prior state exactly) if it
// would introduce a cycle, and otherwise recompute the written cell and
// every transitive dependent in topological order. The returned slice
// lists every recomputed cell, the written cell first.
func (w *Workbook) SetContentsOfCell(name, text string) ([]string, error) {
	n, ok := names.Accept(name, w.normalize, w.validate)
	if !ok {
		return nil, &InvalidNameError{Name: name}
	}

	contents, err := w.classify(text)
	if err != nil {
		return nil, err
	}

	existingRec, existed := w.cells[n]
	var priorSnapshot cellRecord
	if existed {
		priorSnapshot = *existingRec // copy by value: existingRec is about to be mutated in place
	}
	priorDependees := w.graph.Dependees(n)

	rec := existingRec
	if !existed {
		rec = &cellRecord{}
		w.cells[n] = rec
	}
	rec.contents = contents
	rec.sourceText = text

	var newDependees []string
	if fc, ok := contents.(FormulaContents); ok {
		newDependees = fc.F.Variables()
	}
	w.graph.ReplaceDependees(n, newDependees)

	order, cycleErr := w.topoOrderFrom(n)
	if cycleErr != nil {
		// Roll back: restore prior contents/record and prior in-edges
		// exactly, so the workbook is observationally unchanged.
		if existed {
			*rec = priorSnapshot
		} else {
			delete(w.cells, n)
		}
		w.graph.ReplaceDependees(n, priorDependees)
		return nil, cycleErr
	}

	for _, cellName := range order {
		w.recompute(cellName)
	}
	w.dirty = true

	if w.bus != nil {
		w.bus.Publish(notify.ChangeNotification{Name: n, Affected: order})
	}

	return order, nil
}

// classify implements the text-to-contents boundary rule from spec §6:
// a finite double first, then a leading '=' as a formula, otherwise text.
func (w *Workbook) classify(text string) (Contents, error) {
	if f, ok := parseFiniteFloat(text); ok {
		return NumberContents{N: f}, nil
	}
	if strings.HasPrefix(text, "=") {
		f, err := formula.New(text[1:], w.normalize, w.validate)
		if err != nil {
			return nil, err
		}
		return FormulaContents{F: f}, nil
	}
	return TextContents{S: text}, nil
}

func parseFiniteFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// recompute evaluates a single cell's contents against the current
// values of the cells it depends on and writes the result. Non-formula
// cells simply copy their contents into value.
func (w *Workbook) recompute(name string) {
	rec, ok := w.cells[name]
	if !ok {
		return
	}
	switch c := rec.contents.(type) {
	case NumberContents:
		rec.value = NumberValue{N: c.N}
	case TextContents:
		rec.value = TextValue{S: c.S}
	case FormulaContents:
		lookup := func(varName string) (float64, bool) {
			v, _ := w.GetCellValue(varName)
			nv, ok := v.(NumberValue)
			if !ok {
				return 0, false
			}
			return nv.N, true
		}
		result, ferr := c.F.Evaluate(lookup)
		if ferr != nil {
			rec.value = ErrorValue{Reason: ferr.Reason}
		} else {
			rec.value = NumberValue{N: result}
		}
	}
}

// Save serializes the workbook's source text for every cell into store,
// clearing the dirty flag on success.
func (w *Workbook) Save(ctx context.Context, store persistence.Store) error {
	doc := persistence.Document{
		Version: w.version,
		Cells:   make(map[string]persistence.CellRecord, len(w.cells)),
	}
	for name, rec := range w.cells {
		doc.Cells[name] = persistence.CellRecord{StringForm: rec.sourceText}
	}
	if err := store.Save(ctx, doc); err != nil {
		return &SpreadsheetReadWriteError{Reason: "save failed", Err: err}
	}
	w.dirty = false
	return nil
}

// Load builds a new Workbook from store, replaying every persisted cell
// through SetContentsOfCell. The stored version must equal the requested
// version or the load fails with SpreadsheetReadWriteError; so does any
// I/O or decode failure, and any error SetContentsOfCell returns while
// replaying a stored cell. Only those categories of error are narrowed into
// SpreadsheetReadWriteError — a panic during replay (a programmer error,
// e.g. a validator that is not actually a function of its input) is not
// recovered here.
func Load(ctx context.Context, store persistence.Store, opts ...Option) (*Workbook, error) {
	w := New(opts...)

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, &SpreadsheetReadWriteError{Reason: "load failed", Err: err}
	}
	if doc.Version != w.version {
		return nil, &SpreadsheetReadWriteError{
			Reason: "version mismatch: document has " + doc.Version + ", requested " + w.version,
		}
	}

	for name, rec := range doc.Cells {
		if _, err := w.SetContentsOfCell(name, rec.StringForm); err != nil {
			return nil, &SpreadsheetReadWriteError{Reason: "replaying cell " + name, Err: err}
		}
	}
	w.dirty = false
	return w, nil
}
