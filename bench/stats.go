package bench

import "time"

// RunStats aggregates the counters a benchmark run produces. All derived
// values are guarded so a zero-length or zero-frame run reports zeros
// instead of NaN or Inf.
type RunStats struct {
	// FramesProcessed is the number of successfully grabbed frames.
	FramesProcessed int
	// DepthFrames is the number of frames on which depth was computed.
	DepthFrames int
	// TotalFrames is the recording's frame count, or LiveFrameSentinel.
	TotalFrames int
	// Elapsed is the wall time between the first grab attempt and the
	// terminal state.
	Elapsed time.Duration
}

// AverageFPS returns frames processed per elapsed second.
func (s RunStats) AverageFPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.FramesProcessed) / s.Elapsed.Seconds()
}

// AverageFrameTimeMs returns the mean per-frame time in milliseconds.
func (s RunStats) AverageFrameTimeMs() float64 {
	if s.FramesProcessed == 0 {
		return 0
	}
	return s.Elapsed.Seconds() * 1000 / float64(s.FramesProcessed)
}

// DepthRate returns depth computations per elapsed second.
func (s RunStats) DepthRate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.DepthFrames) / s.Elapsed.Seconds()
}

// FrameSkipRatio returns how many grabbed frames elapse per depth frame.
func (s RunStats) FrameSkipRatio() float64 {
	if s.DepthFrames == 0 {
		return 0
	}
	return float64(s.FramesProcessed) / float64(s.DepthFrames)
}

// PercentComplete returns the completion percentage against TotalFrames.
func (s RunStats) PercentComplete() float64 {
	if s.TotalFrames <= 0 {
		return 0
	}
	return float64(s.FramesProcessed) / float64(s.TotalFrames) * 100
}
