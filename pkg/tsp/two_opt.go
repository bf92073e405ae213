package tsp

// improveTwoOpt refines an open path with first-improvement 2-opt. Each pass
// scans all edge index pairs (i, j) with j >= i+2; on the first pair where
// reversing the segment path[i+1..j] shortens the path, the reversal is
// applied and the pass restarts. The path is open, so when j+1 runs past the
// end only the edge at i participates. Stops at a local optimum or after
// twoOptMaxPasses passes.
func improveTwoOpt(lookup Lookup, path []string) []string {
	best := make([]string, len(path))
	copy(best, path)

	improved := true
	for passes := 0; improved && passes < twoOptMaxPasses; passes++ {
		improved = false

	scan:
		for i := 0; i < len(best)-1; i++ {
			for j := i + 2; j < len(best); j++ {
				// Edges removed: (best[i], best[i+1]) and, when it
				// exists, (best[j], best[j+1]).
				current, ok := lookup.distance(best[i], best[i+1])
				if !ok {
					continue
				}
				candidate, ok := lookup.distance(best[i], best[j])
				if !ok {
					continue
				}
				if j+1 < len(best) {
					d, ok := lookup.distance(best[j], best[j+1])
					if !ok {
						continue
					}
					current += d
					d, ok = lookup.distance(best[i+1], best[j+1])
					if !ok {
						continue
					}
					candidate += d
				}

				if candidate < current {
					reverseSegment(best, i+1, j)
					improved = true
					break scan
				}
			}
		}
	}

	return best
}

// reverseSegment reverses path[lo..hi] in place, inclusive on both ends.
func reverseSegment(path []string, lo, hi int) {
	for lo < hi {
		path[lo], path[hi] = path[hi], path[lo]
		lo++
		hi--
	}
}
