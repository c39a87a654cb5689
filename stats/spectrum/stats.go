// Package spectrum provides summary statistics for MCA count spectra.
package spectrum

import "math"

// Stats holds per-spectrum summary statistics. Channel-valued fields
// (Centroid, RMSWidth, FWHM) are in channel units.
type Stats struct {
	Channels  int
	Total     float64 // sum of counts
	Peak      float64
	PeakIndex int
	NonZero   int
	Centroid  float64 // count-weighted mean channel
	RMSWidth  float64 // count-weighted standard deviation around the centroid
	FWHM      float64 // interpolated full width at half the peak maximum
}

// Calculate computes summary statistics for a count spectrum.
func Calculate(counts []float64) Stats {
	n := len(counts)
	if n == 0 {
		return Stats{}
	}

	s := Stats{Channels: n}

	for i, c := range counts {
		s.Total += c
		if c > s.Peak {
			s.Peak = c
			s.PeakIndex = i
		}

		if c != 0 {
			s.NonZero++
		}
	}

	if s.Total > 0 {
		weighted := 0.0
		for i, c := range counts {
			weighted += float64(i) * c
		}

		s.Centroid = weighted / s.Total

		sq := 0.0
		for i, c := range counts {
			d := float64(i) - s.Centroid
			sq += c * d * d
		}

		s.RMSWidth = math.Sqrt(sq / s.Total)
	}

	s.FWHM = fwhm(counts, s.PeakIndex, s.Peak)

	return s
}

// fwhm measures the full width at half maximum around the peak, linearly
// interpolating the half-max crossings. Crossings that run off the spectrum
// clamp to the boundary.
func fwhm(counts []float64, peakIdx int, peak float64) float64 {
	if peak <= 0 {
		return 0
	}

	half := peak / 2

	left := 0.0
	for i := peakIdx; i >= 0; i-- {
		if counts[i] < half {
			// Interpolate between i and i+1.
			left = float64(i) + (half-counts[i])/(counts[i+1]-counts[i])
			break
		}

		if i == 0 {
			left = 0
		}
	}

	right := float64(len(counts) - 1)
	for i := peakIdx; i < len(counts); i++ {
		if counts[i] < half {
			right = float64(i) - (half-counts[i])/(counts[i-1]-counts[i])
			break
		}

		if i == len(counts)-1 {
			right = float64(len(counts) - 1)
		}
	}

	return right - left
}
