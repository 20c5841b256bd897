package stereo

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// depthRangeMeters scales the 8-bit disparity response into a plausible
// metric range for the depth buffer. The values are a coarse proxy; the
// benchmark cares about the per-tier compute and copy cost, not accuracy.
const depthRangeMeters = 20.0

// defaultRecordedFPS stands in when neither the container metadata nor the
// requested parameters report a frame rate.
const defaultRecordedFPS = 60

// VideoSource is an OpenCV-backed Camera. Both recorded captures and live
// devices deliver packed side-by-side stereo frames (the UVC output format
// of ZED-family cameras); Grab reads the packed frame once and the views
// and measures are carved out of it on retrieval.
type VideoSource struct {
	cap    *gocv.VideoCapture
	params InitParameters
	live   bool
	opened bool

	eye    Resolution
	fps    float64
	frames int

	// frame holds the packed side-by-side capture, reused every Grab.
	frame gocv.Mat
	// scratch buffers for the depth approximation, reused every retrieval.
	grayL, grayR     gocv.Mat
	scaledL, scaledR gocv.Mat
	dispA, dispB     gocv.Mat
}

// NewVideoSource returns an unopened VideoSource.
func NewVideoSource() *VideoSource {
	return &VideoSource{}
}

// Open initializes the capture per params. Recorded playback is never paced:
// OpenCV file reads return frames as fast as decode allows, which is the
// behavior SVORealTime=false asks for.
func (s *VideoSource) Open(params InitParameters) error {
	if s.opened {
		return errors.New("camera already open")
	}

	var (
		vc  *gocv.VideoCapture
		err error
	)
	if params.SVOPath != "" {
		vc, err = gocv.OpenVideoCapture(params.SVOPath)
		if err != nil {
			return errors.Wrapf(err, "open capture file %s", params.SVOPath)
		}
	} else {
		vc, err = gocv.OpenVideoCapture(params.DeviceID)
		if err != nil {
			return errors.Wrapf(err, "open capture device %d", params.DeviceID)
		}
		if !params.CameraResolution.Empty() {
			// The device exposes the stereo pair as one packed frame, so
			// the requested width is doubled.
			vc.Set(gocv.VideoCaptureFrameWidth, float64(params.CameraResolution.Width*2))
			vc.Set(gocv.VideoCaptureFrameHeight, float64(params.CameraResolution.Height))
		}
		if params.CameraFPS > 0 {
			vc.Set(gocv.VideoCaptureFPS, float64(params.CameraFPS))
		}
	}
	if !vc.IsOpened() {
		vc.Close()
		if params.SVOPath != "" {
			return errors.Errorf("capture file %s could not be opened", params.SVOPath)
		}
		return errors.Errorf("capture device %d could not be opened", params.DeviceID)
	}

	s.cap = vc
	s.params = params
	s.live = params.SVOPath == ""
	s.eye = Resolution{
		Width:  int(vc.Get(gocv.VideoCaptureFrameWidth)) / 2,
		Height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
	}
	s.fps = fallbackFPS(vc.Get(gocv.VideoCaptureFPS), params.CameraFPS)
	if !s.live {
		s.frames = int(vc.Get(gocv.VideoCaptureFrameCount))
	}

	s.frame = gocv.NewMat()
	s.grayL = gocv.NewMat()
	s.grayR = gocv.NewMat()
	s.scaledL = gocv.NewMat()
	s.scaledR = gocv.NewMat()
	s.dispA = gocv.NewMat()
	s.dispB = gocv.NewMat()
	s.opened = true
	return nil
}

// fallbackFPS resolves the capture rate from what the backend reports,
// falling back to the requested rate and finally to defaultRecordedFPS, so
// a recorded file with missing rate metadata never reports 0 FPS.
func fallbackFPS(reported float64, requested int) float64 {
	if reported > 0 {
		return reported
	}
	if requested > 0 {
		return float64(requested)
	}
	return defaultRecordedFPS
}

// Grab blocks until the next packed frame is read.
func (s *VideoSource) Grab() error {
	if !s.opened {
		return errors.New("camera not open")
	}
	if ok := s.cap.Read(&s.frame); !ok || s.frame.Empty() {
		if s.live {
			return errors.New("capture device returned no frame")
		}
		return ErrEndOfStream
	}
	return nil
}

// eyeRect returns the packed-frame region holding the requested eye.
func (s *VideoSource) eyeRect(view View) image.Rectangle {
	if view == ViewRight {
		return image.Rect(s.eye.Width, 0, s.eye.Width*2, s.eye.Height)
	}
	return image.Rect(0, 0, s.eye.Width, s.eye.Height)
}

// RetrieveImage copies the requested eye of the last grabbed frame into dst.
func (s *VideoSource) RetrieveImage(dst *gocv.Mat, view View) error {
	if !s.opened || s.frame.Empty() {
		return errors.New("no grabbed frame available")
	}
	region := s.frame.Region(s.eyeRect(view))
	defer region.Close()
	region.CopyTo(dst)
	return nil
}

// RetrieveMeasure computes the depth approximation over the last grabbed
// frame and writes a float32 buffer into dst. A non-empty res runs the
// computation at those dimensions, which is how an ROI smaller than the
// full frame reduces the per-frame cost.
func (s *VideoSource) RetrieveMeasure(dst *gocv.Mat, measure Measure, res Resolution) error {
	if measure != MeasureDepth {
		return errors.Errorf("unsupported measure %d", measure)
	}
	if !s.params.DepthMode.Enabled() {
		return errors.New("depth retrieval requested but depth mode is NONE")
	}
	if !s.opened || s.frame.Empty() {
		return errors.New("no grabbed frame available")
	}

	target := res
	if target.Empty() {
		target = s.eye
	}

	left := s.frame.Region(s.eyeRect(ViewLeft))
	right := s.frame.Region(s.eyeRect(ViewRight))
	defer left.Close()
	defer right.Close()

	gocv.CvtColor(left, &s.grayL, gocv.ColorBGRToGray)
	gocv.CvtColor(right, &s.grayR, gocv.ColorBGRToGray)

	size := image.Pt(target.Width, target.Height)
	gocv.Resize(s.grayL, &s.scaledL, size, 0, 0, gocv.InterpolationArea)
	gocv.Resize(s.grayR, &s.scaledR, size, 0, 0, gocv.InterpolationArea)

	// The raw left/right difference stands in for the matching cost volume;
	// each tier then refines it with its own workload profile.
	cur, next := &s.dispA, &s.dispB
	gocv.AbsDiff(s.scaledL, s.scaledR, cur)

	profile := s.params.DepthMode.profile()
	ksize := image.Pt(profile.kernel, profile.kernel)
	for i := 0; i < profile.smoothPasses; i++ {
		gocv.GaussianBlur(*cur, next, ksize, 0, 0, gocv.BorderDefault)
		cur, next = next, cur
	}
	if profile.bilateral > 0 {
		gocv.BilateralFilter(*cur, next, profile.bilateral, 75, 75)
		cur, next = next, cur
	}

	cur.ConvertToWithParams(dst, gocv.MatTypeCV32F, depthRangeMeters/255.0, 0)
	return nil
}

// SVOFrameCount returns the recorded frame total, or 0 for a live device.
func (s *VideoSource) SVOFrameCount() int {
	return s.frames
}

// Information returns the per-eye resolution and capture rate.
func (s *VideoSource) Information() CameraInformation {
	return CameraInformation{Resolution: s.eye, FPS: s.fps}
}

// Close releases the capture handle and every scratch buffer. Safe to call
// on an unopened or already-closed source.
func (s *VideoSource) Close() error {
	if !s.opened {
		return nil
	}
	s.opened = false
	for _, m := range []*gocv.Mat{&s.frame, &s.grayL, &s.grayR, &s.scaledL, &s.scaledR, &s.dispA, &s.dispB} {
		m.Close()
	}
	return s.cap.Close()
}
