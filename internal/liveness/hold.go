package liveness

// DefaultHoldThreshold is the number of net active frames needed to complete a
// challenge, about one second of capture.
const DefaultHoldThreshold = 25

// holdDecay is subtracted on every inactive frame. Decaying faster than the
// counter grows keeps the false-accept rate low.
const holdDecay = 2

// StepHold advances a hold counter by one observed frame. When the counter
// reaches threshold the step reports completion and the returned counter is 0.
func StepHold(counter int, active bool, threshold int) (next int, completed bool) {
	if !active {
		next = counter - holdDecay
		if next < 0 {
			next = 0
		}
		return next, false
	}

	next = counter + 1
	if next >= threshold {
		return 0, true
	}
	return next, false
}

// HoldProgress converts a counter to a percentage in [0, 100].
func HoldProgress(counter, threshold int) float64 {
	if threshold <= 0 || counter <= 0 {
		return 0
	}
	p := 100 * float64(counter) / float64(threshold)
	if p > 100 {
		return 100
	}
	return p
}
