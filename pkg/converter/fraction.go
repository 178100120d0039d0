package converter

import "fmt"

// Fraction is an exact rational duration in quarter-note units. Keeping
// durations rational means measure sums close exactly, including tuplets.
type Fraction struct {
	Num int
	Den int
}

// Frac returns the reduced fraction num/den
func Frac(num, den int) Fraction {
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(abs(num), den)
	if g > 1 {
		num /= g
		den /= g
	}
	return Fraction{Num: num, Den: den}
}

// Zero is the zero duration
var Zero = Fraction{Num: 0, Den: 1}

// Add returns f + o
func (f Fraction) Add(o Fraction) Fraction {
	return Frac(f.Num*o.Den+o.Num*f.Den, f.Den*o.Den)
}

// Mul returns f * num/den
func (f Fraction) Mul(num, den int) Fraction {
	return Frac(f.Num*num, f.Den*den)
}

// Equal reports exact equality
func (f Fraction) Equal(o Fraction) bool {
	a, b := Frac(f.Num, f.Den), Frac(o.Num, o.Den)
	return a.Num == b.Num && a.Den == b.Den
}

// IsZero reports whether the fraction is zero
func (f Fraction) IsZero() bool {
	return f.Num == 0
}

// Scale returns f*factor, which must divide evenly
func (f Fraction) Scale(factor int) int {
	return f.Num * factor / f.Den
}

func (f Fraction) String() string {
	if f.Den == 1 {
		return fmt.Sprintf("%d", f.Num)
	}
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func lcm(a, b int) int {
	return a / gcd(a, b) * b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
