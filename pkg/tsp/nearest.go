package tsp

// nearestNeighbor builds a tour greedily from start: at each step it appends
// the unvisited point with the smallest known distance to the current tail.
// Construction fails with ErrNoTour when no remaining point has a known
// distance to the tail; multi-start callers discard failed attempts.
func nearestNeighbor(lookup Lookup, points []string, start string) ([]string, error) {
	unvisited := make(map[string]bool, len(points))
	for _, p := range points {
		unvisited[p] = true
	}
	if !unvisited[start] {
		start = points[0]
	}

	path := make([]string, 0, len(points))
	path = append(path, start)
	delete(unvisited, start)

	for len(unvisited) > 0 {
		current := path[len(path)-1]
		var nearest string
		nearestDist := 0
		found := false

		// Iterate in the original point order so ties resolve
		// deterministically regardless of map iteration.
		for _, p := range points {
			if !unvisited[p] {
				continue
			}
			d, ok := lookup.distance(current, p)
			if !ok {
				continue
			}
			if !found || d < nearestDist {
				nearest = p
				nearestDist = d
				found = true
			}
		}

		if !found {
			return nil, ErrNoTour
		}
		path = append(path, nearest)
		delete(unvisited, nearest)
	}

	return path, nil
}
