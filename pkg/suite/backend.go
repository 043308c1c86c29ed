package suite

// supported is fixed at process start from the backends compiled into this
// binary. Sequential variants are always present.
var supported = func() [NumVariants]bool {
	var s [NumVariants]bool
	s[Base_Seq] = true
	s[RAJA_Seq] = true
	if parallelEnabled {
		s[Base_OpenMP] = true
		s[RAJALike_OpenMP] = true
		s[RAJA_OpenMP] = true
	}
	if cudaEnabled {
		s[Base_CUDA] = true
		s[RAJA_CUDA] = true
	}
	return s
}()

// IsSupported reports whether v can run in this binary.
func IsSupported(v VariantID) bool {
	return v.Valid() && supported[v]
}

// SupportedVariants returns the variants this binary can run, in
// enumeration order.
func SupportedVariants() []VariantID {
	var out []VariantID
	for v := VariantID(0); v < NumVariants; v++ {
		if supported[v] {
			out = append(out, v)
		}
	}
	return out
}

// Backends names the optional backends compiled into this binary.
// Recorded in the run manifest.
func Backends() []string {
	out := []string{"seq"}
	if parallelEnabled {
		out = append(out, "parallel")
	}
	if cudaEnabled {
		out = append(out, "cuda")
	}
	return out
}
