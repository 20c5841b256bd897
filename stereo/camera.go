// Package stereo defines the boundary to the stereo-depth capture pipeline:
// the Camera interface consumed by the benchmark, the depth-quality tiers,
// and an OpenCV-backed implementation for recorded captures and live devices.
package stereo

import (
	"fmt"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// View identifies which eye of the stereo pair to retrieve.
type View int

const (
	// ViewLeft is the left-eye rectified image.
	ViewLeft View = iota
	// ViewRight is the right-eye rectified image.
	ViewRight
)

// String returns the SDK-style name of the view.
func (v View) String() string {
	if v == ViewRight {
		return "RIGHT"
	}
	return "LEFT"
}

// Measure identifies a computed measurement buffer.
type Measure int

// MeasureDepth is the per-pixel depth map in meters, float32.
const MeasureDepth Measure = iota

// Resolution describes pixel dimensions. The zero value means "native".
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the resolution carries no explicit dimensions.
func (r Resolution) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// String returns the dimensions as "WxH".
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// CameraInformation carries the metadata reported by an open camera.
type CameraInformation struct {
	// Resolution is the per-eye image resolution.
	Resolution Resolution
	// FPS is the capture rate the source was opened at.
	FPS float64
}

// InitParameters configures how a camera is opened.
type InitParameters struct {
	// SVOPath selects playback of a recorded capture file. Empty selects
	// the live device.
	SVOPath string
	// SVORealTime paces playback at the recorded frame rate. The benchmark
	// leaves it false so grabs run as fast as the pipeline allows.
	SVORealTime bool
	// DepthMode selects the depth-computation quality tier.
	DepthMode DepthMode
	// DeviceID is the live capture device index.
	DeviceID int
	// CameraResolution is the requested per-eye resolution in live mode.
	CameraResolution Resolution
	// CameraFPS is the requested capture rate in live mode.
	CameraFPS int
}

// ErrEndOfStream is returned by Grab when a recorded capture has no more
// frames. It is a normal terminal condition, not a failure.
var ErrEndOfStream = errors.New("end of capture stream reached")

// Camera is the set of capture operations the benchmark consumes. Grab
// blocks until the next frame is available; the retrieve calls overwrite
// the caller-owned destination buffers.
type Camera interface {
	// Open initializes the capture source with the given parameters.
	Open(params InitParameters) error
	// Grab waits for and captures the next frame. Returns ErrEndOfStream
	// when a recorded capture is exhausted.
	Grab() error
	// RetrieveImage copies the requested view of the grabbed frame into dst.
	RetrieveImage(dst *gocv.Mat, view View) error
	// RetrieveMeasure computes the requested measurement over the grabbed
	// frame and writes it into dst. A non-empty res requests the
	// measurement at those pixel dimensions instead of the native ones.
	RetrieveMeasure(dst *gocv.Mat, measure Measure, res Resolution) error
	// SVOFrameCount returns the total frame count of a recorded capture,
	// or 0 for a live device.
	SVOFrameCount() int
	// Information returns the metadata of the open source.
	Information() CameraInformation
	// Close releases the underlying device handle.
	Close() error
}
