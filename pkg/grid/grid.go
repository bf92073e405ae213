package grid

import (
	"fmt"
	"strings"
)

// Role classifies a warehouse grid cell. The set is closed: every switch over
// Role in this codebase handles all five values explicitly.
type Role uint8

const (
	RoleObstacle Role = iota
	RolePath
	RoleStart
	RoleEnd
	RoleShelf
)

// String returns the wire representation of a role (upper-case, as received
// in map-processing requests).
func (r Role) String() string {
	switch r {
	case RoleObstacle:
		return "OBSTACLE"
	case RolePath:
		return "PATH"
	case RoleStart:
		return "START"
	case RoleEnd:
		return "END"
	case RoleShelf:
		return "SHELF"
	default:
		return "UNKNOWN"
	}
}

// ParseRole converts a wire role string to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(s) {
	case "OBSTACLE":
		return RoleObstacle, nil
	case "PATH":
		return RolePath, nil
	case "START":
		return RoleStart, nil
	case "END":
		return RoleEnd, nil
	case "SHELF":
		return RoleShelf, nil
	default:
		return RoleObstacle, fmt.Errorf("unknown cell role: %q", s)
	}
}

// Walkable reports whether a cell with this role can be traversed.
// Only obstacles block movement; identity never affects walkability.
func (r Role) Walkable() bool {
	switch r {
	case RoleObstacle:
		return false
	case RolePath, RoleStart, RoleEnd, RoleShelf:
		return true
	default:
		return false
	}
}

// Cell is a single grid square. ID is meaningful only for START, END and
// SHELF cells; for PATH and OBSTACLE it exists solely so normalization can
// run uniformly.
type Cell struct {
	Role Role
	ID   string
}

// Position addresses a cell by (row, col).
type Position struct {
	Row int
	Col int
}

// Grid is a rectangular matrix of cells. Callers are expected to supply
// equal-length rows; the core does not re-validate rectangularity.
type Grid [][]Cell

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of columns, taken from the first row.
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// At returns the cell at p. The caller must ensure p is in bounds.
func (g Grid) At(p Position) Cell { return g[p.Row][p.Col] }

// InBounds reports whether p lies within the grid extents.
func (g Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows() && p.Col >= 0 && p.Col < g.Cols()
}

// Normalize assigns a deterministic ID of the form {role-lowercase}_{row}_{col}
// to every cell that lacks one, in place. Cells that already carry an ID are
// never touched, so normalization is idempotent.
func (g Grid) Normalize() Grid {
	for r, row := range g {
		for c := range row {
			if row[c].ID == "" {
				row[c].ID = fmt.Sprintf("%s_%d_%d", strings.ToLower(row[c].Role.String()), r, c)
			}
		}
	}
	return g
}
