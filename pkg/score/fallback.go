package score

import (
	"github.com/cespare/xxhash/v2"
)

const mantissaBits = 53

// StableUnit returns a deterministic pseudo-random value in [0.0, 1.0) for the
// reference and salt pair. Used in place of evidence for artifacts that can
// not be inspected locally, so repeated runs give identical output.
func StableUnit(ref, salt string) float64 {
	h := xxhash.New()
	_, _ = h.WriteString(salt)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(ref)
	return float64(h.Sum64()>>(64-mantissaBits)) / float64(uint64(1)<<mantissaBits)
}
