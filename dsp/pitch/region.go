package pitch

// Region is a span of absolute sample time.
type Region struct {
	Start int
	Len   int
}

// End returns the absolute index one past the last sample of r.
func (r Region) End() int {
	return r.Start + r.Len
}

// Windows returns how many windows of windowSize, spaced hopSize apart, a
// drain over r analyzes. The trailing remainder is left for a later call.
func (r Region) Windows(windowSize, hopSize int) int {
	if hopSize <= 0 || r.Len < windowSize {
		return 0
	}
	return (r.Len - windowSize) / hopSize
}
