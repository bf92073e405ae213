// Package tsp finds near-optimal open picking tours over a set of landmark
// IDs, given pairwise walking distances. It operates purely on distances and
// knows nothing about the grid.
//
// Strategy is selected by problem size:
//   - n <= 7: exact brute force over all permutations
//   - 8 <= n <= 10: nearest-neighbor construction refined by 2-opt
//   - n > 10: up to MaxStarts nearest-neighbor constructions from distinct
//     starting points, each refined by 2-opt; the best result gets a 3-opt
//     pass when n <= ThreeOptMaxPoints.
//
// Tours are open paths: no return edge from the last point to the first.
package tsp

import "errors"

// ErrNoTour is returned when no strategy attempt can produce a tour that
// visits every point, because required distance data is missing.
var ErrNoTour = errors.New("tsp: no valid tour for the given points")

// Lookup resolves the distance between two point IDs. ok is false when the
// pair is unknown. Implementations may store each pair in one direction only;
// the solver tries both orderings itself.
type Lookup func(from, to string) (int, bool)

// distance tries both orderings of a pair against the underlying lookup.
func (l Lookup) distance(a, b string) (int, bool) {
	if d, ok := l(a, b); ok {
		return d, true
	}
	return l(b, a)
}

const (
	// bruteForceMax is the largest point count solved exactly.
	bruteForceMax = 7
	// singleStartMax is the largest point count solved with one
	// nearest-neighbor start.
	singleStartMax = 10
	// twoOptMaxPasses caps 2-opt improvement passes; this is the sole
	// termination guarantee for adversarial distance data.
	twoOptMaxPasses = 1000
	// threeOptMaxPasses caps 3-opt improvement passes.
	threeOptMaxPasses = 100
)

// Options configures the heuristic branches of the solver.
type Options struct {
	// Seed drives the selection of secondary nearest-neighbor starting
	// points in the multi-start branch. Zero selects a fixed default seed,
	// so results are reproducible unless a caller explicitly varies it.
	Seed int64

	// MaxStarts bounds the number of nearest-neighbor constructions in the
	// multi-start branch. Zero or less selects the default of 5.
	MaxStarts int

	// ThreeOptMaxPoints is the largest point count on which 3-opt runs,
	// bounding its cubic per-pass cost. Zero or less selects the default
	// of 50.
	ThreeOptMaxPoints int
}

// DefaultOptions returns the production solver configuration.
func DefaultOptions() Options {
	return Options{MaxStarts: 5, ThreeOptMaxPoints: 50}
}

func (o Options) maxStarts() int {
	if o.MaxStarts <= 0 {
		return 5
	}
	return o.MaxStarts
}

func (o Options) threeOptMaxPoints() int {
	if o.ThreeOptMaxPoints <= 0 {
		return 50
	}
	return o.ThreeOptMaxPoints
}

// Solve returns an open tour visiting every point exactly once, or ErrNoTour
// when missing distance data defeats every strategy attempt. The empty set
// yields an empty tour; a singleton yields itself.
func Solve(lookup Lookup, points []string, opts Options) ([]string, error) {
	if len(points) == 0 {
		return []string{}, nil
	}
	if len(points) == 1 {
		return []string{points[0]}, nil
	}

	switch {
	case len(points) <= bruteForceMax:
		return solveBruteForce(lookup, points)
	case len(points) <= singleStartMax:
		path, err := nearestNeighbor(lookup, points, points[0])
		if err != nil {
			return nil, err
		}
		return improveTwoOpt(lookup, path), nil
	default:
		return solveMultiStart(lookup, points, opts)
	}
}

// pathDistance sums the edges along an open path. ok is false when any edge
// is unknown; an empty or single-point path has distance 0.
func pathDistance(lookup Lookup, path []string) (total int, ok bool) {
	for i := 0; i+1 < len(path); i++ {
		d, known := lookup.distance(path[i], path[i+1])
		if !known {
			return 0, false
		}
		total += d
	}
	return total, true
}
