package params

import (
	"os"
	"strconv"
)

// Default values. Where an env var is named, a valid value in the
// environment replaces the built-in default; command-line flags still win.
var (
	// PERFSUITE_NPASSES (integer >= 1).
	defaultNumPasses = envInt("PERFSUITE_NPASSES", 1)

	// PERFSUITE_TOLERANCE (float > 0), relative checksum deviation allowed
	// before a variant is flagged.
	defaultTolerance = envFloat64("PERFSUITE_TOLERANCE", 1e-9)

	// PERFSUITE_OUTDIR.
	defaultOutDir = envString("PERFSUITE_OUTDIR", ".")
)

const (
	defaultOutFilePrefix = "perfsuite"
	defaultSampleFrac    = 1.0
	defaultSizeFrac      = 1.0
	defaultRefVariant    = "Base_Seq"
)

func envFloat64(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func envString(key, def string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return def
}
