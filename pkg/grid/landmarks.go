package grid

// Landmark is an identity-bearing cell (START, END or SHELF) together with
// its position. PATH and OBSTACLE cells are never landmarks.
type Landmark struct {
	ID  string
	Pos Position
}

// Pair is a pair of landmarks whose walking distance the distance matrix
// needs. The (From, To) direction fixes which way the record is stored.
type Pair struct {
	From Landmark
	To   Landmark
}

// PairSet groups the three relations the distance matrix is built from.
// No relation ever touches START×START, END×END or START×END.
type PairSet struct {
	ShelfPairs      []Pair // every unordered shelf pair, emitted once
	StartShelfPairs []Pair // full START × SHELF cross product
	ShelfEndPairs   []Pair // full SHELF × END cross product
}

// Len returns the total number of pairs across all three relations.
func (ps PairSet) Len() int {
	return len(ps.ShelfPairs) + len(ps.StartShelfPairs) + len(ps.ShelfEndPairs)
}

// All returns every pair in one slice, shelf pairs first.
func (ps PairSet) All() []Pair {
	out := make([]Pair, 0, ps.Len())
	out = append(out, ps.ShelfPairs...)
	out = append(out, ps.StartShelfPairs...)
	out = append(out, ps.ShelfEndPairs...)
	return out
}

// FindByRole scans the grid in row-major order and returns every landmark of
// the given role. The enumeration order is what fixes pair direction
// downstream, so it must stay stable.
func FindByRole(g Grid, role Role) []Landmark {
	var found []Landmark
	for r, row := range g {
		for c, cell := range row {
			if cell.Role == role {
				found = append(found, Landmark{ID: cell.ID, Pos: Position{Row: r, Col: c}})
			}
		}
	}
	return found
}

// EnumeratePairs classifies the grid's landmarks and produces the set of
// pairs whose distances matter for route planning. The grid must already be
// normalized so every landmark carries an ID.
func EnumeratePairs(g Grid) PairSet {
	shelves := FindByRole(g, RoleShelf)
	starts := FindByRole(g, RoleStart)
	ends := FindByRole(g, RoleEnd)

	var ps PairSet

	// Each unordered shelf pair exactly once: first bucket index before second.
	for i, a := range shelves {
		for _, b := range shelves[i+1:] {
			ps.ShelfPairs = append(ps.ShelfPairs, Pair{From: a, To: b})
		}
	}

	for _, s := range starts {
		for _, sh := range shelves {
			ps.StartShelfPairs = append(ps.StartShelfPairs, Pair{From: s, To: sh})
		}
	}

	for _, sh := range shelves {
		for _, e := range ends {
			ps.ShelfEndPairs = append(ps.ShelfEndPairs, Pair{From: sh, To: e})
		}
	}

	return ps
}
