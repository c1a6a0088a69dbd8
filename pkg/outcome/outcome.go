// Package outcome models the result of a best-effort side effect such as a
// DM, an RCON command or a log-channel post. Each step reports Ok or
// Failed(reason) and the caller decides what that means for persistence.
package outcome

import "fmt"

// Result is the result of one independently-failing step.
type Result struct {
	ok      bool
	skipped bool
	Reason  string
}

// Ok returns a successful result.
func Ok() Result { return Result{ok: true} }

// Failed returns a failed result with a human readable reason.
func Failed(reason string) Result { return Result{Reason: reason} }

// Failedf is Failed with formatting.
func Failedf(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// FromErr returns Ok for a nil error and Failed(err) otherwise.
func FromErr(err error) Result {
	if err == nil {
		return Ok()
	}
	return Failed(err.Error())
}

// Skipped marks a step that was not attempted, e.g. a DM with no linked account.
func Skipped(reason string) Result { return Result{skipped: true, Reason: reason} }

// IsOK reports whether the step succeeded.
func (r Result) IsOK() bool { return r.ok }

// IsSkipped reports whether the step was intentionally not attempted.
func (r Result) IsSkipped() bool { return r.skipped }

// IsFailed reports whether the step was attempted and failed.
func (r Result) IsFailed() bool { return !r.ok && !r.skipped }

func (r Result) String() string {
	switch {
	case r.ok:
		return "ok"
	case r.skipped:
		return "skipped: " + r.Reason
	default:
		return "failed: " + r.Reason
	}
}

// Emoji renders the result for embeds.
func (r Result) Emoji() string {
	switch {
	case r.ok:
		return "✅"
	case r.skipped:
		return "➖"
	default:
		return "❌"
	}
}
