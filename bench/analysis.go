package bench

import "github.com/chewxy/math32"

// DepthStats summarises the valid samples of a float32 depth map, in meters.
// NaN, infinite and non-positive samples (occlusions, out-of-range pixels)
// are excluded.
type DepthStats struct {
	Mean float32
	Std  float32
	Min  float32
	Max  float32
	// Valid is the number of samples that contributed.
	Valid int
}

// AnalyzeDepth computes DepthStats over the raw samples of a depth buffer.
// An all-invalid or empty buffer yields the zero DepthStats.
func AnalyzeDepth(samples []float32) DepthStats {
	var (
		sum   float32
		sumSq float32
		min   float32 = math32.MaxFloat32
		max   float32
		n     int
	)
	for _, v := range samples {
		if math32.IsNaN(v) || math32.IsInf(v, 0) || v <= 0 {
			continue
		}
		sum += v
		sumSq += v * v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		n++
	}
	if n == 0 {
		return DepthStats{}
	}

	mean := sum / float32(n)
	variance := sumSq/float32(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return DepthStats{
		Mean:  mean,
		Std:   math32.Sqrt(variance),
		Min:   min,
		Max:   max,
		Valid: n,
	}
}
