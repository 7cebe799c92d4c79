package window

import "fmt"

func ExampleGenerate() {
	w := Generate(TypeHann, 4)
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.75 0.75 0.00
}

func ExampleApplyCoefficientsInPlace() {
	coeffs := Generate(TypeHann, 4)
	frame := []float64{2, 2, 2, 2}
	if err := ApplyCoefficientsInPlace(frame, coeffs); err != nil {
		panic(err)
	}
	fmt.Printf("%.2f %.2f %.2f %.2f\n", frame[0], frame[1], frame[2], frame[3])
	// Output:
	// 0.00 1.50 1.50 0.00
}

func ExampleWithUnitSum() {
	k := Generate(TypeHann, 5, WithUnitSum())
	fmt.Printf("%.2f %.2f %.2f %.2f %.2f\n", k[0], k[1], k[2], k[3], k[4])
	// Output:
	// 0.00 0.25 0.50 0.25 0.00
}
