package gamepad

// ReportState accumulates button bits into the report byte and remembers the
// last value the peer acknowledged, so only changes go out. It does no
// locking; Link guards it.
type ReportState struct {
	input    InputState
	lastSent uint8
	sent     bool
}

// Set applies a button change and reports whether the report byte changed.
func (r *ReportState) Set(mask uint8, pressed bool) bool {
	return r.input.Set(mask, pressed)
}

// Report returns the current report byte.
func (r *ReportState) Report() uint8 {
	return r.input.Buttons
}

// Input returns the current logical state.
func (r *ReportState) Input() InputState {
	return r.input
}

// Pending returns the report to send, if it differs from the last sent one.
func (r *ReportState) Pending() ([]byte, bool) {
	b := r.input.BuildReport()
	if r.sent && b[0] == r.lastSent {
		return nil, false
	}
	return b, true
}

// MarkSent records a successfully sent report.
func (r *ReportState) MarkSent(report []byte) {
	if len(report) < InputReportSize {
		return
	}
	r.lastSent = report[0]
	r.sent = true
}

// Reset forgets the last sent report so the next Pending always yields one.
func (r *ReportState) Reset() {
	r.lastSent = 0
	r.sent = false
}
