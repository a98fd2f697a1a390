package coordinator

// State is the coordinator's pipeline state.
// Flow: Idle → Recording → Processing → {Ready | NeedsMedia | Error}.
// The three terminal states count as idle for the purpose of starting
// the next recording; dictating onto an existing draft re-enters
// Recording while the draft still has content.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateProcessing State = "processing"
	StateReady      State = "ready"
	StateNeedsMedia State = "needs_media"
	StateError      State = "error"
)

// inFlight reports whether a pipeline stage is currently running
func (s State) inFlight() bool {
	return s == StateRecording || s == StateProcessing
}

// amplitudeStats tracks recording amplitude at sample rate.
// Updates are pure data: they never cause a state transition and are
// never rejected by the transition lock.
type amplitudeStats struct {
	max     float64
	sum     float64
	samples int64
	// speechDetected latches once a sample crosses the dB threshold
	speechDetected bool
}

func (a *amplitudeStats) reset() {
	*a = amplitudeStats{}
}

func (a *amplitudeStats) update(level, threshold float64) {
	if a.samples == 0 || level > a.max {
		a.max = level
	}
	a.sum += level
	a.samples++
	if level > threshold {
		a.speechDetected = true
	}
}

func (a *amplitudeStats) average() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}
