// Package e2e exercises the full worker pipeline in-process: queue intake,
// map processing, persistence and tour solving, with only the network
// replaced by mock sockets.
package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-router/pkg/jobs"
	"github.com/dd0wney/cluso-router/pkg/mapproc"
	"github.com/dd0wney/cluso-router/pkg/store"
	"github.com/dd0wney/cluso-router/pkg/transport"
	"github.com/dd0wney/cluso-router/pkg/tsp"
)

const (
	mapReqAddr   = "inproc://map-req"
	mapRespAddr  = "inproc://map-resp"
	tourReqAddr  = "inproc://tour-req"
	tourRespAddr = "inproc://tour-resp"
)

type pipeline struct {
	factory *transport.MockSocketFactory
	service *jobs.Service
	store   *store.FileStore
}

func startPipeline(t *testing.T) *pipeline {
	t.Helper()

	fs, err := store.NewFileStore(t.TempDir(), false)
	require.NoError(t, err)

	builder := mapproc.NewBuilder(fs, 4, nil)
	handler := jobs.NewHandler(builder, fs, tsp.Options{Seed: 1}, nil, nil)

	factory := transport.NewMockSocketFactory()
	service, err := jobs.NewService(factory, transport.QueueConfig{
		MapRequestAddr:   mapReqAddr,
		MapResponseAddr:  mapRespAddr,
		TourRequestAddr:  tourReqAddr,
		TourResponseAddr: tourRespAddr,
	}, handler, nil)
	require.NoError(t, err)

	service.Start()
	t.Cleanup(service.Stop)

	return &pipeline{factory: factory, service: service, store: fs}
}

func (p *pipeline) submitMap(t *testing.T, payload string) jobs.MapProcessResponse {
	t.Helper()
	p.factory.Push(mapReqAddr, []byte(payload))

	raw, ok := p.factory.Pull(mapRespAddr, 5*time.Second)
	require.True(t, ok, "no map outcome within 5s")

	var resp jobs.MapProcessResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

func (p *pipeline) submitTour(t *testing.T, jobID, mapID string, points []string) jobs.TourResponse {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"jobid":             jobID,
		"mapid":             mapID,
		"point_of_interest": points,
	})
	require.NoError(t, err)
	p.factory.Push(tourReqAddr, payload)

	raw, ok := p.factory.Pull(tourRespAddr, 5*time.Second)
	require.True(t, ok, "no tour outcome within 5s")

	var resp jobs.TourResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

// squareWarehouse has four shelves on the corners of a 3x3 square, the start
// in the middle and the end below. Adjacent corners are 2 steps apart and
// diagonal corners 4, so the best open tour over all four shelves walks the
// perimeter: total 6.
const squareWarehouse = `{
  "mapid": "square",
  "map": [
    [{"type": "SHELF"}, {"type": "PATH"},  {"type": "SHELF"}],
    [{"type": "PATH"},  {"type": "START"}, {"type": "PATH"}],
    [{"type": "SHELF"}, {"type": "PATH"},  {"type": "SHELF"}],
    [{"type": "PATH"},  {"type": "END"},   {"type": "PATH"}]
  ]
}`

var squareShelves = []string{"shelf_0_0", "shelf_0_2", "shelf_2_0", "shelf_2_2"}

func TestMapThenTour(t *testing.T) {
	p := startPipeline(t)

	assert.True(t, p.service.Running())

	mapResp := p.submitMap(t, squareWarehouse)
	require.Equal(t, "complete", mapResp.Status, mapResp.ErrorMessage)
	assert.NotEmpty(t, mapResp.JobID)

	// 6 shelf-shelf + 4 start-shelf + 4 shelf-end pairs.
	records, err := p.store.Load(context.Background(), "square")
	require.NoError(t, err)
	assert.Len(t, records, 14)

	tourResp := p.submitTour(t, "tour-1", "square", squareShelves)
	require.Equal(t, "complete", tourResp.Status, tourResp.ErrorMessage)
	assert.Equal(t, "tour-1", tourResp.JobID)
	assert.ElementsMatch(t, squareShelves, tourResp.PointOfInterest)

	set := store.NewSet(records)
	total := 0
	for i := 0; i+1 < len(tourResp.PointOfInterest); i++ {
		d, ok := set.Get(tourResp.PointOfInterest[i], tourResp.PointOfInterest[i+1])
		require.True(t, ok, "tour uses an unknown edge")
		total += d
	}
	assert.Equal(t, 6, total, "four corner shelves are best visited along the perimeter")
}

func TestTourBeforeMapFails(t *testing.T) {
	p := startPipeline(t)

	resp := p.submitTour(t, "tour-1", "unprocessed", []string{"shelf_0_0"})
	require.Equal(t, "error", resp.Status)
	assert.Equal(t, "map data not found for mapid: unprocessed", resp.ErrorMessage)
}

func TestMapReprocessingReplacesDistances(t *testing.T) {
	p := startPipeline(t)

	require.Equal(t, "complete", p.submitMap(t, squareWarehouse).Status)
	first, err := p.store.Load(context.Background(), "square")
	require.NoError(t, err)

	// Resubmit with one shelf walled off; the stored set is replaced, not
	// merged, and the isolated shelf now carries the no-path sentinel.
	walled := `{
  "mapid": "square",
  "map": [
    [{"type": "SHELF"}, {"type": "OBSTACLE"}, {"type": "SHELF"}],
    [{"type": "OBSTACLE"}, {"type": "START"}, {"type": "PATH"}],
    [{"type": "SHELF"}, {"type": "PATH"},  {"type": "SHELF"}],
    [{"type": "PATH"},  {"type": "END"},   {"type": "PATH"}]
  ]
}`
	require.Equal(t, "complete", p.submitMap(t, walled).Status)

	second, err := p.store.Load(context.Background(), "square")
	require.NoError(t, err)
	assert.Len(t, second, len(first))

	set := store.NewSet(second)
	d, ok := set.Get("shelf_0_0", "shelf_2_2")
	require.True(t, ok)
	assert.Equal(t, -1, d, "walled-off shelf pairs are recorded as unreachable")
}

func TestMalformedJobsDoNotStallTheQueue(t *testing.T) {
	p := startPipeline(t)

	bad := p.submitMap(t, `{"mapid": "oops"`)
	require.Equal(t, "error", bad.Status)
	assert.NotEmpty(t, bad.ErrorMessage)

	good := p.submitMap(t, squareWarehouse)
	assert.Equal(t, "complete", good.Status, "a malformed job must not take the consumer down")
}
