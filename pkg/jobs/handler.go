package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-router/pkg/logging"
	"github.com/dd0wney/cluso-router/pkg/mapproc"
	"github.com/dd0wney/cluso-router/pkg/metrics"
	"github.com/dd0wney/cluso-router/pkg/search"
	"github.com/dd0wney/cluso-router/pkg/store"
	"github.com/dd0wney/cluso-router/pkg/tsp"
)

// Handler turns job payloads into outcome messages. All failures are local
// to the job: parse errors, store errors, solver failures and panics each
// become an error outcome, never a crash or a dropped job.
type Handler struct {
	builder  *mapproc.Builder
	store    store.DistanceStore
	tspOpts  tsp.Options
	logger   logging.Logger
	registry *metrics.Registry
	validate *validator.Validate
}

// NewHandler wires the job handler. registry may be nil to disable metrics.
func NewHandler(builder *mapproc.Builder, st store.DistanceStore, tspOpts tsp.Options, logger logging.Logger, registry *metrics.Registry) *Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Handler{
		builder:  builder,
		store:    st,
		tspOpts:  tspOpts,
		logger:   logger,
		registry: registry,
		validate: validator.New(),
	}
}

// HandleMapJob processes one map-processing payload and returns the outcome
// message. The job ID is minted here with a uuid.
func (h *Handler) HandleMapJob(payload []byte) []byte {
	jobID := uuid.New().String()
	start := time.Now()
	log := h.logger.With(logging.JobID(jobID), logging.Operation("map_processing"))

	if h.registry != nil {
		h.registry.JobsInFlight.Inc()
		defer h.registry.JobsInFlight.Dec()
	}

	resp := h.handleMapJob(jobID, payload, log)

	if h.registry != nil {
		h.registry.RecordJob("map_processing", resp.Status, time.Since(start))
	}
	return mustMarshal(resp, log)
}

func (h *Handler) handleMapJob(jobID string, payload []byte, log logging.Logger) (resp MapProcessResponse) {
	resp = MapProcessResponse{JobID: jobID, Status: StatusComplete}

	defer func() {
		if r := recover(); r != nil {
			resp = MapProcessResponse{
				JobID:        jobID,
				Status:       StatusError,
				ErrorMessage: fmt.Sprintf("unexpected error processing map: %v\n%s", r, debug.Stack()),
			}
			log.Error("map job panic", logging.Any("panic", r))
		}
	}()

	var req MapProcessRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return mapError(jobID, fmt.Errorf("malformed map request: %w", err), log)
	}
	if err := h.validate.Struct(&req); err != nil {
		return mapError(jobID, fmt.Errorf("invalid map request: %w", err), log)
	}

	g, err := req.Grid()
	if err != nil {
		return mapError(jobID, fmt.Errorf("invalid map grid: %w", err), log)
	}

	result, err := h.builder.Build(context.Background(), g, string(req.MapID))
	if err != nil {
		return mapError(jobID, err, log)
	}

	if h.registry != nil {
		noPath := 0
		for _, rec := range result.Records {
			if rec.Distance == search.NoPath {
				noPath++
			}
		}
		h.registry.RecordMapBuild(g.Rows()*g.Cols(), len(result.Records), len(result.FailedPairs), noPath)
	}

	log.Info("map processing complete",
		logging.MapID(string(req.MapID)),
		logging.Count(len(result.Records)),
	)
	return resp
}

func mapError(jobID string, err error, log logging.Logger) MapProcessResponse {
	log.Error("map job failed", logging.Error(err))
	return MapProcessResponse{JobID: jobID, Status: StatusError, ErrorMessage: err.Error()}
}

// HandleTourJob processes one tour-request payload and returns the outcome
// message.
func (h *Handler) HandleTourJob(payload []byte) []byte {
	start := time.Now()
	log := h.logger.With(logging.Operation("tour_request"))

	if h.registry != nil {
		h.registry.JobsInFlight.Inc()
		defer h.registry.JobsInFlight.Dec()
	}

	resp := h.handleTourJob(payload, log)

	if h.registry != nil {
		h.registry.RecordJob("tour_request", resp.Status, time.Since(start))
	}
	return mustMarshal(resp, log)
}

func (h *Handler) handleTourJob(payload []byte, log logging.Logger) (resp TourResponse) {
	var jobID string

	defer func() {
		if r := recover(); r != nil {
			resp = TourResponse{
				JobID:        jobID,
				Status:       StatusError,
				ErrorMessage: fmt.Sprintf("unexpected error processing tour request: %v\n%s", r, debug.Stack()),
			}
			log.Error("tour job panic", logging.Any("panic", r))
		}
	}()

	var req TourRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return tourError(jobID, fmt.Errorf("malformed tour request: %w", err), log)
	}
	if err := h.validate.Struct(&req); err != nil {
		return tourError(string(req.JobID), fmt.Errorf("invalid tour request: %w", err), log)
	}
	jobID = string(req.JobID)
	log = log.With(logging.JobID(jobID), logging.MapID(string(req.MapID)))

	records, err := h.store.Load(context.Background(), string(req.MapID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return tourError(jobID, fmt.Errorf("map data not found for mapid: %s", req.MapID), log)
		}
		return tourError(jobID, err, log)
	}

	set := store.NewSet(records)
	points := req.Points()

	solveStart := time.Now()
	tour, err := tsp.Solve(tsp.Lookup(set.Get), points, h.tspOpts)
	if err != nil {
		if h.registry != nil {
			h.registry.ToursFailedTotal.Inc()
		}
		return tourError(jobID, fmt.Errorf("no valid path found for the given points"), log)
	}

	if h.registry != nil {
		h.registry.RecordTourSolve(strategyFor(len(points)), len(points), time.Since(solveStart))
	}

	log.Info("tour request complete", logging.Points(len(points)))
	return TourResponse{JobID: jobID, Status: StatusComplete, PointOfInterest: tour}
}

func tourError(jobID string, err error, log logging.Logger) TourResponse {
	log.Error("tour job failed", logging.Error(err))
	return TourResponse{JobID: jobID, Status: StatusError, ErrorMessage: err.Error()}
}

// strategyFor mirrors the solver's size thresholds for metrics labels.
func strategyFor(n int) string {
	switch {
	case n <= 7:
		return "brute_force"
	case n <= 10:
		return "nn_2opt"
	default:
		return "multi_start"
	}
}

// mustMarshal encodes an outcome message. Outcome structs contain only
// strings, so failure here is unreachable in practice; the fallback keeps
// the one-outcome-per-job guarantee anyway.
func mustMarshal(v any, log logging.Logger) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error("failed to marshal job outcome", logging.Error(err))
		return []byte(`{"status":"error","errormessage":"internal: failed to encode outcome"}`)
	}
	return data
}
