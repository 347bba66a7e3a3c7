// Package budget tracks per-execution LLM spend against a dollar limit.
// The tracker is pure workflow state: no clocks, no I/O, deterministic under
// replay.
package budget

// warnFraction is the share of the limit at which the one-shot warning fires.
const warnFraction = 0.8

// Tracker accumulates cost for one workflow execution.
type Tracker struct {
	limitUSD    float64
	accruedUSD  float64
	warningSent bool
}

// NewTracker creates a tracker with the given limit. A non-positive limit
// means any spend at all exceeds the budget.
func NewTracker(limitUSD float64) *Tracker {
	return &Tracker{limitUSD: limitUSD}
}

// Accrue adds the cost of one completed LLM call. Negative costs are ignored.
func (t *Tracker) Accrue(costUSD float64) {
	if costUSD < 0 {
		return
	}
	t.accruedUSD += costUSD
}

// ShouldWarn reports whether the 80% warning is due and not yet sent.
// The caller publishes the warning and then calls MarkWarningSent.
func (t *Tracker) ShouldWarn() bool {
	if t.warningSent {
		return false
	}
	return t.accruedUSD >= warnFraction*t.limitUSD
}

// MarkWarningSent suppresses further warnings.
func (t *Tracker) MarkWarningSent() {
	t.warningSent = true
}

// Exceeded reports whether accrued spend has reached or passed the limit.
func (t *Tracker) Exceeded() bool {
	return t.accruedUSD >= t.limitUSD
}

// Remaining returns the unspent budget, never negative.
func (t *Tracker) Remaining() float64 {
	if r := t.limitUSD - t.accruedUSD; r > 0 {
		return r
	}
	return 0
}

// Accrued returns the total spend so far.
func (t *Tracker) Accrued() float64 {
	return t.accruedUSD
}

// Limit returns the configured limit.
func (t *Tracker) Limit() float64 {
	return t.limitUSD
}
