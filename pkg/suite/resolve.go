package suite

// lookup tables for name resolution, built once from the name tables.
var (
	groupByName   = make(map[string]GroupID, NumGroups)
	kernelByName  = make(map[string]KernelID, 2*NumKernels)
	variantByName = make(map[string]VariantID, NumVariants)
)

func init() {
	for g, name := range groupNames {
		groupByName[name] = GroupID(g)
	}
	for k := KernelID(0); k < NumKernels; k++ {
		kernelByName[fullKernelNames[k]] = k
	}
	// Short names only resolve when they are unambiguous across groups and
	// do not shadow a group or full kernel name.
	counts := make(map[string]int, NumKernels)
	for _, e := range kernelTable {
		counts[e.short]++
	}
	for k, e := range kernelTable {
		if counts[e.short] != 1 {
			continue
		}
		if _, isGroup := groupByName[e.short]; isGroup {
			continue
		}
		if _, taken := kernelByName[e.short]; taken {
			continue
		}
		kernelByName[e.short] = KernelID(k)
	}
	for v, name := range variantNames {
		variantByName[name] = VariantID(v)
	}
}

// ResolveKernels maps a selector token to kernels. A group name expands to
// every kernel in that group in enumeration order; a full or short kernel
// name yields that single kernel. ok is false when nothing matches.
func ResolveKernels(token string) (ids []KernelID, ok bool) {
	if g, found := groupByName[token]; found {
		return KernelsInGroup(g), true
	}
	if k, found := kernelByName[token]; found {
		return []KernelID{k}, true
	}
	return nil, false
}

// ResolveVariant maps a variant name to its id. It resolves every name in
// the closed enumeration, including variants this binary cannot run.
func ResolveVariant(token string) (VariantID, bool) {
	v, ok := variantByName[token]
	return v, ok
}
