package fitting_test

import (
	"fmt"

	"github.com/avirtanen/algo-mca/fitting"
)

func ExampleFit() {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	res, _ := fitting.Fit(fitting.Poly1{}, x, y, nil, nil, nil)
	fmt.Printf("%.2f %.2f %s\n", res.Beta[0], res.Beta[1], res.Status)
	// Output:
	// 2.00 1.00 refined
}
