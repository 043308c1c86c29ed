package kernel

import (
	"math/rand/v2"
)

// Data initializers are deterministic so that every variant of a kernel
// sees identical inputs. The salt distinguishes the arrays of one kernel.

// InitData returns n values f*(i+1.1)/(i+1.12345), with f picked by salt.
func InitData(n, salt int) []float64 {
	factor := 0.1
	if salt%2 == 1 {
		factor = 0.2
	}
	v := make([]float64, n)
	for i := range v {
		fi := float64(i)
		v[i] = factor * (fi + 1.1) / (fi + 1.12345)
	}
	return v
}

// InitDataConst returns n copies of val.
func InitDataConst(n int, val float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = val
	}
	return v
}

// InitDataRandSign returns InitData values with pseudo-random signs drawn
// from a generator seeded by salt.
func InitDataRandSign(n, salt int) []float64 {
	v := InitData(n, salt)
	rng := rand.New(rand.NewPCG(uint64(salt), 0x9e3779b97f4a7c15))
	for i := range v {
		if rng.IntN(2) == 0 {
			v[i] = -v[i]
		}
	}
	return v
}

// InitDataInt returns n pseudo-random integers in [-100, 100) seeded by
// salt.
func InitDataInt(n, salt int) []int {
	rng := rand.New(rand.NewPCG(uint64(salt), 0x2545f4914f6cdd1d))
	v := make([]int, n)
	for i := range v {
		v[i] = rng.IntN(200) - 100
	}
	return v
}

// CalcChecksum is the position-weighted sum of v, sum((i+1)*v[i]).
func CalcChecksum(v []float64) float64 {
	sum := 0.0
	for i, x := range v {
		sum += float64(i+1) * x
	}
	return sum
}

// CalcChecksumInt is CalcChecksum for integer data.
func CalcChecksumInt(v []int) float64 {
	sum := 0.0
	for i, x := range v {
		sum += float64(i+1) * float64(x)
	}
	return sum
}
