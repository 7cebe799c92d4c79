package pitch

// keyMaximumCutoff is the fraction of the highest key maximum a candidate
// must reach to be selected (McLeod & Wyvill, "A smarter way to find pitch").
const keyMaximumCutoff = 0.9

// keyMaxima appends to dst the index of the highest point of every positive
// lobe of curve that follows the first negative-going zero crossing. A lobe
// still rising at the end of curve is dropped since its peak lies beyond
// the searched lags.
func keyMaxima(curve []float64, dst []int) []int {
	i := 0
	for i < len(curve) && curve[i] > 0 {
		i++
	}

	best := -1
	for ; i < len(curve); i++ {
		v := curve[i]
		switch {
		case v > 0:
			if best < 0 || v > curve[best] {
				best = i
			}
		case best >= 0:
			dst = append(dst, best)
			best = -1
		}
	}

	if best >= 0 && best < len(curve)-1 {
		dst = append(dst, best)
	}

	return dst
}

// choosePeak returns the first key maximum within keyMaximumCutoff of the
// highest one, or -1 when there are none.
func choosePeak(curve []float64, maxima []int) int {
	if len(maxima) == 0 {
		return -1
	}

	highest := curve[maxima[0]]
	for _, idx := range maxima[1:] {
		if curve[idx] > highest {
			highest = curve[idx]
		}
	}

	cutoff := keyMaximumCutoff * highest
	for _, idx := range maxima {
		if curve[idx] >= cutoff {
			return idx
		}
	}

	return maxima[0]
}

// parabolicPeak refines the peak at index i by fitting a parabola through
// its neighbours. It returns the fractional position and the interpolated
// height.
func parabolicPeak(curve []float64, i int) (float64, float64) {
	if i <= 0 || i >= len(curve)-1 {
		return float64(i), curve[i]
	}

	a, b, c := curve[i-1], curve[i], curve[i+1]
	den := a - 2*b + c
	if den == 0 {
		return float64(i), b
	}

	delta := 0.5 * (a - c) / den
	return float64(i) + delta, b - 0.25*(a-c)*delta
}
