package regression_test

import (
	"fmt"

	"github.com/dadi156/calgo-sub000/regression"
)

func ExampleNew() {
	model, err := regression.New(regression.KindLinear, 5)
	if err != nil {
		panic(err)
	}

	res := model.Fit([]float64{0, 1, 2, 3, 4}, []float64{1, 3, 5, 7, 9})
	fmt.Printf("intercept=%.2f slope=%.2f path=%s\n", res.Coefficients[0], res.Coefficients[1], res.Path)
	fmt.Printf("next=%.2f\n", model.Evaluate(res.Coefficients, 5))

	// Output:
	// intercept=1.00 slope=2.00 path=primary
	// next=11.00
}

func ExampleNew_polynomial() {
	model, err := regression.New(regression.KindPolynomial, 10, regression.WithDegree(2))
	if err != nil {
		panic(err)
	}

	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2 + 3*v + v*v
	}

	res := model.Fit(x, y)
	fmt.Printf("%.1f %.1f %.1f\n", res.Coefficients[0], res.Coefficients[1], res.Coefficients[2])

	// Output:
	// 2.0 3.0 1.0
}

func ExampleNewByName() {
	model, err := regression.NewByName("lowess", 0, regression.WithBandwidth(0.5))
	if err != nil {
		panic(err)
	}

	res := model.Fit([]float64{0, 0.5, 1}, []float64{4, 4, 4})
	fmt.Printf("samples=%d mid=%.1f\n", len(res.Coefficients), model.Evaluate(res.Coefficients, 0.5))

	_, err = regression.NewByName("spline", 0)
	fmt.Println(err != nil)

	// Output:
	// samples=3 mid=4.0
	// true
}

func ExampleKinds() {
	for _, k := range regression.Kinds() {
		fmt.Println(k)
	}

	// Output:
	// linear
	// logarithmic
	// exponential
	// weighted
	// polynomial
	// moving
	// ema
	// lowess
}
