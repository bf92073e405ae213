package tsp

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestTwoOptUncrossesPath(t *testing.T) {
	// Points on a line visited out of order; 2-opt should recover the
	// straight walk.
	d, points := line(5)
	lookup := d.lookup()

	crossed := []string{"p0", "p3", "p2", "p1", "p4"}
	improved := improveTwoOpt(lookup, crossed)

	if !isPermutation(improved, points) {
		t.Fatalf("2-opt broke the permutation: %v", improved)
	}
	total, ok := pathDistance(lookup, improved)
	if !ok {
		t.Fatal("improved path has unknown edges")
	}
	if total != 4 {
		t.Errorf("expected uncrossed total 4, got %d for %v", total, improved)
	}
}

func TestTwoOptLeavesOptimalPathAlone(t *testing.T) {
	d, points := line(5)
	improved := improveTwoOpt(d.lookup(), points)
	for i, p := range points {
		if improved[i] != p {
			t.Fatalf("optimal path changed: %v", improved)
		}
	}
}

func TestTwoOptSkipsUnknownEdges(t *testing.T) {
	// Only the chain edges exist; no 2-opt move can be evaluated, so the
	// path must come back unchanged rather than panic.
	d := distMap{
		{"A", "B"}: 5,
		{"B", "C"}: 5,
		{"C", "D"}: 5,
	}
	path := []string{"A", "B", "C", "D"}
	improved := improveTwoOpt(d.lookup(), path)
	for i, p := range path {
		if improved[i] != p {
			t.Fatalf("path with unknown move edges changed: %v", improved)
		}
	}
}

// randomComplete builds a complete distance map over n points with random
// weights in [1, 100], stored in one direction.
func randomComplete(n int, seed int64) (distMap, []string) {
	rng := rand.New(rand.NewSource(seed))
	d := make(distMap)
	points := make([]string, n)
	for i := range points {
		points[i] = fmt.Sprintf("p%d", i)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d[[2]string{points[i], points[j]}] = 1 + rng.Intn(100)
		}
	}
	return d, points
}

func TestTwoOptProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("never worsens its input path", prop.ForAll(
		func(n int, seed int64) bool {
			d, points := randomComplete(n, seed)
			lookup := d.lookup()

			path, err := nearestNeighbor(lookup, points, points[0])
			if err != nil {
				return false
			}
			before, _ := pathDistance(lookup, path)

			improved := improveTwoOpt(lookup, path)
			after, ok := pathDistance(lookup, improved)
			return ok && after <= before && isPermutation(improved, points)
		},
		gen.IntRange(2, 12),
		gen.Int64(),
	))

	properties.Property("output of brute force is a lower bound for small n", prop.ForAll(
		func(n int, seed int64) bool {
			d, points := randomComplete(n, seed)
			lookup := d.lookup()

			exact, err := solveBruteForce(lookup, points)
			if err != nil {
				return false
			}
			exactTotal, _ := pathDistance(lookup, exact)

			path, err := nearestNeighbor(lookup, points, points[0])
			if err != nil {
				return false
			}
			heuristicTotal, _ := pathDistance(lookup, improveTwoOpt(lookup, path))
			return exactTotal <= heuristicTotal
		},
		gen.IntRange(2, 7),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
