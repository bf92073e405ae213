package tsp

import "math/rand"

// defaultSeed is the fixed seed used when Options.Seed is zero, keeping
// default runs reproducible.
const defaultSeed int64 = 1

func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// solveMultiStart runs nearest-neighbor from up to opts.MaxStarts distinct
// starting points, refining each result with 2-opt and keeping the shortest.
// The first point is always among the starts; the rest are drawn without
// replacement using the seeded RNG. The best result gets a 3-opt pass when
// the problem is small enough for its cubic passes.
func solveMultiStart(lookup Lookup, points []string, opts Options) ([]string, error) {
	starts := startIndices(len(points), opts.maxStarts(), rngFromSeed(opts.Seed))

	var best []string
	bestDist := 0

	for _, idx := range starts {
		path, err := nearestNeighbor(lookup, points, points[idx])
		if err != nil {
			// A failed construction only discards this attempt.
			continue
		}
		path = improveTwoOpt(lookup, path)

		total, ok := pathDistance(lookup, path)
		if !ok {
			continue
		}
		if best == nil || total < bestDist {
			best = path
			bestDist = total
		}
	}

	if best == nil {
		return nil, ErrNoTour
	}

	if len(points) <= opts.threeOptMaxPoints() {
		best = improveThreeOpt(lookup, best)
	}
	return best, nil
}

// startIndices returns up to maxStarts distinct indices into the point list,
// always beginning with 0. The remainder is a sample without replacement
// from 1..n-1.
func startIndices(n, maxStarts int, rng *rand.Rand) []int {
	if maxStarts > n {
		maxStarts = n
	}
	indices := []int{0}
	if maxStarts <= 1 {
		return indices
	}

	rest := rng.Perm(n - 1)
	for i := 0; i < maxStarts-1 && i < len(rest); i++ {
		indices = append(indices, rest[i]+1)
	}
	return indices
}
