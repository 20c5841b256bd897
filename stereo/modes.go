package stereo

// DepthMode selects the stereo depth-computation quality tier, trading
// compute cost per frame for accuracy.
type DepthMode int

const (
	// DepthModeNone disables depth computation entirely.
	DepthModeNone DepthMode = iota
	// DepthModePerformance is the fastest depth tier.
	DepthModePerformance
	// DepthModeQuality balances speed and accuracy.
	DepthModeQuality
	// DepthModeUltra is the best non-neural quality tier.
	DepthModeUltra
	// DepthModeNeural is the AI depth tier.
	DepthModeNeural
	// DepthModeNeuralPlus is the highest-accuracy AI depth tier.
	DepthModeNeuralPlus
)

// String returns the SDK-style name of the mode.
func (m DepthMode) String() string {
	switch m {
	case DepthModePerformance:
		return "PERFORMANCE"
	case DepthModeQuality:
		return "QUALITY"
	case DepthModeUltra:
		return "ULTRA"
	case DepthModeNeural:
		return "NEURAL"
	case DepthModeNeuralPlus:
		return "NEURAL_PLUS"
	default:
		return "NONE"
	}
}

// Enabled reports whether the mode computes depth at all.
func (m DepthMode) Enabled() bool {
	return m != DepthModeNone
}

// Neural reports whether the mode uses the neural estimator, which has a
// noticeably longer first-time initialization.
func (m DepthMode) Neural() bool {
	return m == DepthModeNeural || m == DepthModeNeuralPlus
}

// ParseDepthModeChoice maps a menu selection ("1" through "6") to its
// DepthMode. The second return value is false for anything else; callers
// are expected to fall back to DepthModeNone with a warning.
func ParseDepthModeChoice(choice string) (DepthMode, bool) {
	switch choice {
	case "1":
		return DepthModeNone, true
	case "2":
		return DepthModePerformance, true
	case "3":
		return DepthModeQuality, true
	case "4":
		return DepthModeUltra, true
	case "5":
		return DepthModeNeural, true
	case "6":
		return DepthModeNeuralPlus, true
	default:
		return DepthModeNone, false
	}
}

// depthProfile controls how much smoothing work a tier performs when the
// playback backend approximates the depth computation.
type depthProfile struct {
	// smoothPasses is the number of Gaussian refinement passes.
	smoothPasses int
	// kernel is the Gaussian kernel side length (odd).
	kernel int
	// bilateral is the diameter of the edge-preserving pass used by the
	// neural tiers; 0 disables it.
	bilateral int
}

// profile returns the workload profile of the tier. Higher tiers perform
// strictly more work per pixel, preserving the relative cost ordering of
// the real estimator.
func (m DepthMode) profile() depthProfile {
	switch m {
	case DepthModePerformance:
		return depthProfile{smoothPasses: 1, kernel: 5}
	case DepthModeQuality:
		return depthProfile{smoothPasses: 2, kernel: 9}
	case DepthModeUltra:
		return depthProfile{smoothPasses: 3, kernel: 15}
	case DepthModeNeural:
		return depthProfile{smoothPasses: 2, kernel: 9, bilateral: 9}
	case DepthModeNeuralPlus:
		return depthProfile{smoothPasses: 3, kernel: 15, bilateral: 15}
	default:
		return depthProfile{}
	}
}
