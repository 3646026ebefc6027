package workbook

import (
	"github.com/MasterFire41604/reactive-spreadsheet/names"
	"github.com/MasterFire41604/reactive-spreadsheet/notify"
)

// Option configures a Workbook at construction time. Grounded on the
// teacher's plain-argument constructors (NewEvaluatorWithSourceAndFilename,
// ConnectionInfo decoded once at startup) generalized into the functional-
// options idiom so New and Load can share one configuration surface.
type Option func(*Workbook)

// WithValidator sets the cell/variable name validator. Default: accept
// every name that matches the base pattern.
func WithValidator(v names.Validator) Option {
	return func(w *Workbook) { w.validate = v }
}

// WithNormalizer sets the cell/variable name normalizer. Default: identity.
func WithNormalizer(n names.Normalizer) Option {
	return func(w *Workbook) { w.normalize = n }
}

// WithVersion sets the workbook's version string, compared against a
// persisted document's version on Load. Default: "default".
func WithVersion(version string) Option {
	return func(w *Workbook) { w.version = version }
}

// WithNotifyBus attaches an optional change-notification sink. Unset by
// default; every operation in this package behaves identically whether or
// not a bus is attached.
func WithNotifyBus(bus *notify.Bus) Option {
	return func(w *Workbook) { w.bus = bus }
}
