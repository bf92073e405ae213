// Package jobs binds the transport queues to the route-planning engine: it
// parses job requests, drives the map builder and tour solver, and produces
// exactly one outcome message per intake.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-router/pkg/grid"
)

// Job status values on the wire.
const (
	StatusComplete = "complete"
	StatusError    = "error"
)

// FlexID is a job or landmark identifier that may arrive as a JSON string or
// number. It is always coerced to its string form; IDs are strings
// everywhere past the wire.
type FlexID string

// UnmarshalJSON accepts strings and numbers.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// wireCell is one grid cell as received in a map-processing request.
type wireCell struct {
	Type string `json:"type"`
	ID   FlexID `json:"id,omitempty"`
}

// MapProcessRequest is the intake message for a map-processing job.
type MapProcessRequest struct {
	Map   [][]wireCell `json:"map" validate:"required,min=1"`
	MapID FlexID       `json:"mapid" validate:"required"`
}

// Grid converts the wire matrix into the core grid model.
func (r *MapProcessRequest) Grid() (grid.Grid, error) {
	g := make(grid.Grid, len(r.Map))
	for i, row := range r.Map {
		g[i] = make([]grid.Cell, len(row))
		for j, cell := range row {
			role, err := grid.ParseRole(cell.Type)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", i, j, err)
			}
			g[i][j] = grid.Cell{Role: role, ID: string(cell.ID)}
		}
	}
	return g, nil
}

// MapProcessResponse is the outcome message for a map-processing job. The
// job ID is minted by the worker.
type MapProcessResponse struct {
	JobID        string `json:"jobid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errormessage,omitempty"`
}

// TourRequest is the intake message for a tour-request job.
type TourRequest struct {
	JobID           FlexID   `json:"jobid" validate:"required"`
	MapID           FlexID   `json:"mapid" validate:"required"`
	PointOfInterest []FlexID `json:"point_of_interest" validate:"required"`
}

// Points returns the requested landmark IDs as strings.
func (r *TourRequest) Points() []string {
	out := make([]string, len(r.PointOfInterest))
	for i, p := range r.PointOfInterest {
		out[i] = string(p)
	}
	return out
}

// TourResponse is the outcome message for a tour-request job. On success
// PointOfInterest carries the visiting order.
type TourResponse struct {
	JobID           string   `json:"jobid"`
	Status          string   `json:"status"`
	PointOfInterest []string `json:"point_of_interest,omitempty"`
	ErrorMessage    string   `json:"errormessage,omitempty"`
}
