package floats

// Slice is a float series indexed from the first period.
type Slice []float64

// Zeros returns a zero-filled slice of length n.
func Zeros(n int) Slice {
	if n <= 0 {
		return Slice{}
	}
	return make(Slice, n)
}

func (s Slice) Sum() (sum float64) {
	for _, v := range s {
		sum += v
	}
	return sum
}

// Add returns the element-wise sum of s and b. The result has the length of the shorter slice.
func (s Slice) Add(b Slice) (c Slice) {
	length := min(len(s), len(b))
	c = make(Slice, length)
	for i := 0; i < length; i++ {
		c[i] = s[i] + b[i]
	}
	return c
}

// Accumulate adds b into s element by element, in place.
// Elements of b beyond the length of s are ignored.
func (s Slice) Accumulate(b Slice) Slice {
	length := min(len(s), len(b))
	for i := 0; i < length; i++ {
		s[i] += b[i]
	}
	return s
}

func (s Slice) MulScalar(x float64) (c Slice) {
	c = make(Slice, len(s))
	for i, v := range s {
		c[i] = v * x
	}
	return c
}

func (s Slice) Min() float64 {
	if len(s) == 0 {
		return 0.0
	}

	m := s[0]
	for _, v := range s[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func (s Slice) Max() float64 {
	if len(s) == 0 {
		return 0.0
	}

	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
