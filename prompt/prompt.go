// Package prompt collects the benchmark parameters through sequential
// interactive menus. Empty input selects the documented default; anything
// unrecognized falls back to the safe default with a warning. The only hard
// failure is an empty capture-file path.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/svo-tools/grabbench/bench"
	"github.com/svo-tools/grabbench/stereo"
)

// ErrNoPath is returned when the operator selects file playback but
// provides no path. The run cannot proceed.
var ErrNoPath = errors.New("no capture file path provided")

// defaultDepthHz is the fallback depth cadence for invalid frequency input.
const defaultDepthHz = 10

// Collector reads benchmark parameters from an interactive session.
type Collector struct {
	in  *bufio.Reader
	out io.Writer
	// eof is set once the input stream ends; later menus then take their
	// documented defaults without another read.
	eof bool
}

// NewCollector wraps the given terminal streams.
func NewCollector(in io.Reader, out io.Writer) *Collector {
	return &Collector{in: bufio.NewReader(in), out: out}
}

// Collect walks the operator through the menus and assembles the immutable
// run configuration. The ROI and depth-frequency menus are only shown when
// a depth mode is selected.
func (c *Collector) Collect() (bench.Config, error) {
	cfg := bench.Config{ROIPercent: 100}

	if err := c.collectSource(&cfg); err != nil {
		return cfg, err
	}
	c.collectDepthMode(&cfg)
	if cfg.DepthMode.Enabled() {
		c.collectROI(&cfg)
		c.collectDepthHz(&cfg)
		cfg.AnalyzeDepth = true
	}
	return cfg, nil
}

func (c *Collector) collectSource(cfg *bench.Config) error {
	fmt.Fprintln(c.out, "📹 Select video source:")
	fmt.Fprintln(c.out, "  1) SVO2 file (playback from disk)")
	fmt.Fprintln(c.out, "  2) Live camera (real-time streaming)")

	choice := c.ask("\nChoose source (1-2) [default: 1]: ", "1")
	cfg.Live = choice == "2"

	if cfg.Live {
		fmt.Fprintln(c.out, "\n✅ Selected: LIVE camera feed")
		return nil
	}

	if c.eof {
		// The stream ended before a path could be given; a path has no
		// sensible default, so fail without prompting further.
		fmt.Fprintln(c.out, "❌ No path provided. Exiting.")
		return ErrNoPath
	}
	path := c.ask("\nEnter SVO2 file path: ", "")
	if path == "" {
		fmt.Fprintln(c.out, "❌ No path provided. Exiting.")
		return ErrNoPath
	}
	cfg.SVOPath = path
	fmt.Fprintln(c.out, "\n✅ Selected: SVO2 file playback")
	return nil
}

func (c *Collector) collectDepthMode(cfg *bench.Config) {
	fmt.Fprintln(c.out, "\n📊 Select depth mode:")
	fmt.Fprintln(c.out, "  1) NONE - No depth (fastest, ~60 FPS)")
	fmt.Fprintln(c.out, "  2) PERFORMANCE - Fast depth (~30 FPS)")
	fmt.Fprintln(c.out, "  3) QUALITY - Balanced depth (~15 FPS)")
	fmt.Fprintln(c.out, "  4) ULTRA - Best quality (~10 FPS)")
	fmt.Fprintln(c.out, "  5) NEURAL - AI depth (~8 FPS)")
	fmt.Fprintln(c.out, "  6) NEURAL_PLUS - Best AI depth (~8-10 FPS, 30-60s init)")

	choice := c.ask("\nChoose depth mode (1-6) [default: 1]: ", "1")
	mode, ok := stereo.ParseDepthModeChoice(choice)
	if !ok {
		fmt.Fprintf(c.out, "⚠️  Invalid choice '%s', using NONE (fastest)\n", choice)
	}
	cfg.DepthMode = mode
	fmt.Fprintf(c.out, "\n✅ Selected depth: %s\n", mode)
}

func (c *Collector) collectROI(cfg *bench.Config) {
	fmt.Fprintln(c.out, "\n🎯 Select depth computation area (simulates detection window):")
	fmt.Fprintln(c.out, "  1) 100% - Full frame")
	fmt.Fprintln(c.out, "  2)  50% - Half frame, centered")
	fmt.Fprintln(c.out, "  3)  25% - Quarter frame, centered")

	switch c.ask("\nChoose ROI size (1-3) [default: 1]: ", "1") {
	case "1":
		cfg.ROIPercent = 100
	case "2":
		cfg.ROIPercent = 50
	case "3":
		cfg.ROIPercent = 25
	default:
		fmt.Fprintln(c.out, "⚠️  Invalid choice, using 100% (full frame)")
		cfg.ROIPercent = 100
	}
	fmt.Fprintf(c.out, "\n✅ Selected ROI: %d%% of frame\n", cfg.ROIPercent)
}

func (c *Collector) collectDepthHz(cfg *bench.Config) {
	fmt.Fprintln(c.out, "\n⏱️  Select depth computation frequency:")
	fmt.Fprintln(c.out, "  1) Every frame (max quality, lowest FPS)")
	fmt.Fprintln(c.out, "  2) 10 Hz (recommended for tracking)")
	fmt.Fprintln(c.out, "  3) 5 Hz (good for slow targets)")
	fmt.Fprintln(c.out, "  4) 1 Hz (verification only)")
	fmt.Fprintln(c.out, "  5) Custom Hz")

	switch c.ask("\nChoose frequency (1-5) [default: 2]: ", "2") {
	case "1":
		cfg.DepthHz = 0
		fmt.Fprintln(c.out, "\n✅ Selected: Every frame (no skipping)")
		return
	case "2":
		cfg.DepthHz = 10
	case "3":
		cfg.DepthHz = 5
	case "4":
		cfg.DepthHz = 1
	case "5":
		raw := c.ask("Enter custom Hz (1-60): ", "")
		hz, err := strconv.ParseFloat(raw, 64)
		if err != nil || hz < 1 || hz > 60 {
			fmt.Fprintln(c.out, "⚠️  Invalid Hz, using 10 Hz")
			hz = defaultDepthHz
		}
		cfg.DepthHz = hz
	default:
		fmt.Fprintln(c.out, "⚠️  Invalid choice, using 10 Hz")
		cfg.DepthHz = defaultDepthHz
	}
	fmt.Fprintf(c.out, "\n✅ Selected: %g Hz\n", cfg.DepthHz)
}

// ask prints the prompt and reads one trimmed line, substituting def when
// the input is empty or the stream has ended. Once the stream ends every
// remaining menu resolves to its default.
func (c *Collector) ask(prompt, def string) string {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		c.eof = true
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}
