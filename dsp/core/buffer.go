package core

// Float is the sample type constraint shared by the buffer and pitch packages.
type Float interface {
	~float32 | ~float64
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[T Float](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// Zero sets all values in buf to 0.
func Zero[T Float](buf []T) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[T Float](dst, src []T) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// CopyPadded fills dst from src starting at offset and zeroes whatever src
// cannot supply. It returns the number of samples taken from src.
func CopyPadded[T Float](dst, src []T, offset int) int {
	if offset < 0 || offset > len(src) {
		offset = len(src)
	}
	n := CopyInto(dst, src[offset:])
	Zero(dst[n:])
	return n
}

// Widen converts float32 samples into a float64 destination. It copies
// min(len(dst), len(src)) values and returns that count.
func Widen(dst []float64, src []float32) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := range n {
		dst[i] = float64(src[i])
	}
	return n
}
