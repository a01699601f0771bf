package deck

import "math/rand/v2"

// Shuffle returns a random permutation of d. The result has the same length
// and the same identifiers (duplicates included) as d; d is not modified.
// A nil rng uses the global source.
func Shuffle(d Deck, rng *rand.Rand) Deck {
	out := d.IDs()

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng != nil {
		rng.Shuffle(len(out), swap)
	} else {
		rand.Shuffle(len(out), swap)
	}

	return Deck{ids: out}
}
