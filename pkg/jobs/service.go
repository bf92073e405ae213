package jobs

import (
	"fmt"
	"sync/atomic"

	"github.com/dd0wney/cluso-router/pkg/logging"
	"github.com/dd0wney/cluso-router/pkg/transport"
)

// Service runs the two job consumers (map-processing and tour-request) over
// one socket factory.
type Service struct {
	mapConsumer  *transport.Consumer
	tourConsumer *transport.Consumer
	logger       logging.Logger
	running      atomic.Bool
}

// NewService builds the consumers against the configured queue endpoints.
func NewService(factory transport.SocketFactory, queues transport.QueueConfig, handler *Handler, logger logging.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	mapConsumer, err := transport.NewConsumer(
		"map_processing",
		factory,
		queues.MapRequestAddr,
		queues.MapResponseAddr,
		handler.HandleMapJob,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create map-processing consumer: %w", err)
	}

	tourConsumer, err := transport.NewConsumer(
		"tour_request",
		factory,
		queues.TourRequestAddr,
		queues.TourResponseAddr,
		handler.HandleTourJob,
		logger,
	)
	if err != nil {
		mapConsumer.Stop()
		return nil, fmt.Errorf("failed to create tour-request consumer: %w", err)
	}

	return &Service{
		mapConsumer:  mapConsumer,
		tourConsumer: tourConsumer,
		logger:       logger,
	}, nil
}

// Start launches both consumers.
func (s *Service) Start() {
	s.mapConsumer.Start()
	s.tourConsumer.Start()
	s.running.Store(true)
	s.logger.Info("job service started")
}

// Stop drains and stops both consumers.
func (s *Service) Stop() {
	s.running.Store(false)
	s.mapConsumer.Stop()
	s.tourConsumer.Stop()
	s.logger.Info("job service stopped")
}

// Running reports whether the consumers are started and not yet stopped.
func (s *Service) Running() bool {
	return s.running.Load()
}
