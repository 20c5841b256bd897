// Package bench drives the grab-speed benchmark: a single-threaded blocking
// loop that pulls frames from a stereo.Camera, retrieves the image and depth
// buffers, and reports throughput.
package bench

import "github.com/svo-tools/grabbench/stereo"

// LiveFrameSentinel is the total-frames value used for live sources, where
// the stream has no end. It is never reached; live runs end on interrupt or
// error.
const LiveFrameSentinel = 999999

// Live source defaults, per-eye.
const (
	LiveWidth  = 1280
	LiveHeight = 720
	LiveFPS    = 60
)

// Config fully describes one benchmark run. It is assembled from the
// interactive prompts before the run starts and never mutated afterwards.
type Config struct {
	// SVOPath is the recorded capture to play back. Ignored when Live.
	SVOPath string
	// Live reads from the live device instead of a recording.
	Live bool
	// DepthMode is the depth-computation quality tier.
	DepthMode stereo.DepthMode
	// ROIPercent restricts depth computation to a centered region covering
	// this percentage of each frame dimension: 25, 50 or 100.
	ROIPercent int
	// DepthHz caps how often depth is computed. 0 computes on every frame.
	DepthHz float64
	// AnalyzeDepth enables statistics over the retrieved depth samples.
	AnalyzeDepth bool
}

// SourceName returns the operator-facing name of the capture source.
func (c Config) SourceName() string {
	if c.Live {
		return "LIVE camera"
	}
	return "SVO2 file"
}

// UseROI reports whether depth runs over a reduced centered region.
func (c Config) UseROI() bool {
	return c.DepthMode.Enabled() && c.ROIPercent > 0 && c.ROIPercent < 100
}
