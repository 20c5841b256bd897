package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svo-tools/grabbench/stereo"
)

func TestCollectFileSourceWithAllSelections(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("1\nrecordings/run42.svo2\n2\n2\n2\n")

	cfg, err := NewCollector(in, out).Collect()

	require.NoError(t, err)
	assert.False(t, cfg.Live)
	assert.Equal(t, "recordings/run42.svo2", cfg.SVOPath)
	assert.Equal(t, stereo.DepthModePerformance, cfg.DepthMode)
	assert.Equal(t, 50, cfg.ROIPercent)
	assert.Equal(t, 10.0, cfg.DepthHz)
	assert.True(t, cfg.AnalyzeDepth)
	assert.Contains(t, out.String(), "✅ Selected depth: PERFORMANCE")
	assert.Contains(t, out.String(), "✅ Selected ROI: 50% of frame")
}

func TestCollectDefaultsOnEmptyInput(t *testing.T) {
	out := &bytes.Buffer{}
	// Empty source choice defaults to file playback, then a path, then an
	// empty depth choice defaults to NONE (no further prompts).
	in := strings.NewReader("\ncapture.svo2\n\n")

	cfg, err := NewCollector(in, out).Collect()

	require.NoError(t, err)
	assert.False(t, cfg.Live)
	assert.Equal(t, stereo.DepthModeNone, cfg.DepthMode)
	assert.Equal(t, 100, cfg.ROIPercent)
	assert.False(t, cfg.AnalyzeDepth)
	// ROI and frequency menus must not be shown when depth is off.
	assert.NotContains(t, out.String(), "depth computation area")
	assert.NotContains(t, out.String(), "depth computation frequency")
}

func TestCollectEmptyFilePathFails(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("1\n\n")

	_, err := NewCollector(in, out).Collect()

	assert.ErrorIs(t, err, ErrNoPath)
	assert.Contains(t, out.String(), "❌ No path provided. Exiting.")
}

func TestCollectExhaustedInputFailsBeforePathPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	// The stream ends at the source menu. File playback is the default and
	// a path has no default, so collection fails without prompting further.
	in := strings.NewReader("")

	_, err := NewCollector(in, out).Collect()

	assert.ErrorIs(t, err, ErrNoPath)
	assert.Contains(t, out.String(), "❌ No path provided. Exiting.")
	assert.NotContains(t, out.String(), "Enter SVO2 file path")
}

func TestCollectExhaustedInputAfterLiveUsesDefaults(t *testing.T) {
	out := &bytes.Buffer{}
	// Input ends right after the live selection, without a trailing
	// newline; the remaining menus resolve to their documented defaults.
	in := strings.NewReader("2")

	cfg, err := NewCollector(in, out).Collect()

	require.NoError(t, err)
	assert.True(t, cfg.Live)
	assert.Equal(t, stereo.DepthModeNone, cfg.DepthMode)
	assert.False(t, cfg.AnalyzeDepth)
}

func TestCollectLiveSourceSkipsPathPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("2\n1\n")

	cfg, err := NewCollector(in, out).Collect()

	require.NoError(t, err)
	assert.True(t, cfg.Live)
	assert.Empty(t, cfg.SVOPath)
	assert.Contains(t, out.String(), "✅ Selected: LIVE camera feed")
	assert.NotContains(t, out.String(), "Enter SVO2 file path")
}

func TestCollectUnrecognizedDepthModeFallsBack(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("2\n9\n")

	cfg, err := NewCollector(in, out).Collect()

	require.NoError(t, err)
	assert.Equal(t, stereo.DepthModeNone, cfg.DepthMode)
	assert.False(t, cfg.AnalyzeDepth)
	assert.Contains(t, out.String(), "⚠️  Invalid choice '9', using NONE (fastest)")
	// The run proceeds without depth, so no ROI menu either.
	assert.NotContains(t, out.String(), "depth computation area")
}

func TestCollectUnrecognizedROIFallsBack(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("2\n3\nbogus\n1\n")

	cfg, err := NewCollector(in, out).Collect()

	require.NoError(t, err)
	assert.Equal(t, stereo.DepthModeQuality, cfg.DepthMode)
	assert.Equal(t, 100, cfg.ROIPercent)
	assert.Contains(t, out.String(), "⚠️  Invalid choice, using 100% (full frame)")
}

func TestCollectDepthFrequency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		hz    float64
		warn  bool
	}{
		{"every frame", "2\n2\n1\n1\n", 0, false},
		{"default 10hz", "2\n2\n1\n\n", 10, false},
		{"5hz", "2\n2\n1\n3\n", 5, false},
		{"1hz", "2\n2\n1\n4\n", 1, false},
		{"custom valid", "2\n2\n1\n5\n30\n", 30, false},
		{"custom out of range", "2\n2\n1\n5\n99\n", 10, true},
		{"custom unparsable", "2\n2\n1\n5\nfast\n", 10, true},
		{"unrecognized choice", "2\n2\n1\n8\n", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, err := NewCollector(strings.NewReader(tt.input), out).Collect()

			require.NoError(t, err)
			assert.Equal(t, tt.hz, cfg.DepthHz)
			if tt.warn {
				assert.Contains(t, out.String(), "⚠️")
			}
		})
	}
}

func TestCollectTrimsWhitespace(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("  1  \n  capture.svo2  \n  6  \n  3  \n  1  \n")

	cfg, err := NewCollector(in, out).Collect()

	require.NoError(t, err)
	assert.Equal(t, "capture.svo2", cfg.SVOPath)
	assert.Equal(t, stereo.DepthModeNeuralPlus, cfg.DepthMode)
	assert.Equal(t, 25, cfg.ROIPercent)
}
