// Command grabbench measures sustained frame-acquisition throughput from a
// stereo-depth capture pipeline, from a recorded SVO2-style file or a live
// device, across depth-quality tiers and centered ROI sizes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/svo-tools/grabbench/bench"
	"github.com/svo-tools/grabbench/prompt"
	"github.com/svo-tools/grabbench/stereo"
)

const banner = `╔══════════════════════════════════════════════════════════════════════════════╗
║                                                                              ║
║                       🚀 SVO2 GRAB SPEED TEST 🚀                             ║
║                                                                              ║
╚══════════════════════════════════════════════════════════════════════════════╝`

func main() {
	os.Exit(run())
}

func run() (code int) {
	fmt.Println(banner)
	fmt.Println()

	cfg, err := prompt.NewCollector(os.Stdin, os.Stdout).Collect()
	if err != nil {
		// Missing file path: no device-open attempt is made.
		return 1
	}
	fmt.Println()

	// The signal handler only cancels the context; the loop observes it
	// once per iteration.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := bench.NewRunner(cfg, stereo.NewVideoSource(), os.Stdout)
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n\n❌ ERROR: %v\n", r)
			code = 1
		}
		runner.Close()
		if code == 0 {
			fmt.Println("\n👋 Done!")
		}
	}()

	if err := runner.Initialize(); err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return 1
	}

	runner.Run(ctx)
	return 0
}
