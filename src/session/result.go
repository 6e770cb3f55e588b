package session

import "fmt"

// FailureKind classifies why a recognition attempt produced no text.
type FailureKind string

const (
	KindEngineUnavailable FailureKind = "engine_unavailable"
	KindEngineError       FailureKind = "engine_error"
	KindUnexpected        FailureKind = "unexpected"
)

// Failure is the error half of a Result. It satisfies error so it can travel
// through ResultTarget.OnFailure unchanged.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Result is produced exactly once per completed gesture: Text on success,
// Failure otherwise.
type Result struct {
	Text    string
	Failure *Failure
}

func Success(text string) Result { return Result{Text: text} }

func Failed(kind FailureKind, format string, args ...any) Result {
	return Result{Failure: &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}

func (r Result) OK() bool { return r.Failure == nil }

// Err returns the failure as an error, nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}
