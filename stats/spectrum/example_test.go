package spectrum_test

import (
	"fmt"

	"github.com/avirtanen/algo-mca/stats/spectrum"
)

func ExampleCalculate() {
	s := spectrum.Calculate([]float64{0, 2, 4, 2, 0})
	fmt.Printf("total=%.0f peak=%.0f centroid=%.1f fwhm=%.1f\n", s.Total, s.Peak, s.Centroid, s.FWHM)

	// Output:
	// total=8 peak=4 centroid=2.0 fwhm=2.0
}
