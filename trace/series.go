package trace

// EWMA returns the exponentially weighted moving average of v. An alpha of
// zero returns a plain copy.
func EWMA(alpha float64, v []float64) (r []float64) {
	r = make([]float64, len(v))
	if alpha == 0 {
		copy(r, v)
		return
	}
	var prev float64
	for i, x := range v {
		prev = alpha*prev + (1-alpha)*x
		r[i] = prev
	}
	return
}

// Downsample keeps one of every n points. An n below 2 returns v unchanged.
func Downsample[T any](v []T, n int) (r []T) {
	if n < 2 {
		return v
	}
	for i := 0; i < len(v); i += n {
		r = append(r, v[i])
	}
	return
}
