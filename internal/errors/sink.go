package errors

// Sink collects CompilerErrors in the order they are raised during
// lowering (spec §4.1: an append-only, ordered, user-facing diagnostics
// sink, distinct from the ir package's panic-on-InvariantViolation for
// compiler-internal bugs). Lowering keeps going after recording an error so
// a single source file yields as many diagnostics as possible in one pass.
type Sink struct {
	diagnostics []CompilerError
}

func NewSink() *Sink { return &Sink{} }

func (s *Sink) Add(err CompilerError) { s.diagnostics = append(s.diagnostics, err) }

// Diagnostics returns every recorded error and warning, in the order
// recorded.
func (s *Sink) Diagnostics() []CompilerError { return s.diagnostics }

// HasErrors reports whether any recorded diagnostic is Error-level (as
// opposed to only warnings) — a driver consults this to decide whether to
// proceed to IR generation.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diagnostics {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Format renders every recorded diagnostic with reporter, in order.
func (s *Sink) Format(reporter *ErrorReporter) string {
	var out string
	for _, d := range s.diagnostics {
		out += reporter.FormatError(d)
	}
	return out
}
