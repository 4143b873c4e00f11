package crypto

import "io"

// SetRandReaderForTesting swaps the random source used by GenerateKeypair
// and returns a function that restores the original. Tests use it to
// simulate a failing entropy source.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}
