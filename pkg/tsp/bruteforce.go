package tsp

// solveBruteForce enumerates every permutation of points and returns the one
// with the minimum total edge distance. A permutation containing any unknown
// edge is invalid and skipped. Exact, so only used for small n.
func solveBruteForce(lookup Lookup, points []string) ([]string, error) {
	perm := make([]string, len(points))
	copy(perm, points)

	var best []string
	bestDist := 0

	permute(perm, 0, func(candidate []string) {
		total, ok := pathDistance(lookup, candidate)
		if !ok {
			return
		}
		if best == nil || total < bestDist {
			best = append(best[:0], candidate...)
			bestDist = total
		}
	})

	if best == nil {
		return nil, ErrNoTour
	}
	return best, nil
}

// permute visits every permutation of a[k:] in place, invoking visit with the
// full slice each time. The slice is restored between calls, so visit must
// copy if it keeps the value.
func permute(a []string, k int, visit func([]string)) {
	if k == len(a)-1 {
		visit(a)
		return
	}
	for i := k; i < len(a); i++ {
		a[k], a[i] = a[i], a[k]
		permute(a, k+1, visit)
		a[k], a[i] = a[i], a[k]
	}
}
