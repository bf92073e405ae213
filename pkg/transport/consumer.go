package transport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dd0wney/cluso-router/pkg/logging"
)

// Handler processes one job payload and returns the outcome message to send.
// Every intake must yield exactly one outcome, so Handler never returns nil.
type Handler func(payload []byte) []byte

const (
	recvPollInterval = 500 * time.Millisecond
	dialAttempts     = 5
	dialRetryDelay   = 2 * time.Second
)

// Consumer drains one request queue with a fetch-one, finish, fetch-next
// discipline: a single message is in flight per consumer, which bounds memory
// and gives fair dispatch across queued jobs.
type Consumer struct {
	name    string
	in      ListenSocket
	out     DialSocket
	handler Handler
	logger  logging.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewConsumer binds a PULL socket to requestAddr, connects a PUSH socket to
// responseAddr (with retry) and returns a consumer ready to start.
func NewConsumer(name string, factory SocketFactory, requestAddr, responseAddr string, handler Handler, logger logging.Logger) (*Consumer, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	in, err := factory.NewPullSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create pull socket for %s: %w", name, err)
	}
	if err := in.Listen(requestAddr); err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", requestAddr, err)
	}
	if err := in.SetRecvDeadline(recvPollInterval); err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to set receive deadline for %s: %w", name, err)
	}

	out, err := factory.NewPushSocket()
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("failed to create push socket for %s: %w", name, err)
	}
	if err := DialWithRetry(out, responseAddr, dialAttempts, dialRetryDelay); err != nil {
		in.Close()
		out.Close()
		return nil, fmt.Errorf("failed to dial %s: %w", responseAddr, err)
	}

	return &Consumer{
		name:    name,
		in:      in,
		out:     out,
		handler: handler,
		logger:  logger.With(logging.Queue(name)),
		stopCh:  make(chan struct{}),
	}, nil
}

// Start launches the consume loop.
func (c *Consumer) Start() {
	c.wg.Add(1)
	go c.loop()
	c.logger.Info("consumer started")
}

// Stop terminates the consume loop and closes both sockets. Blocks until the
// in-flight job, if any, has produced its outcome.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.wg.Wait()
	c.in.Close()
	c.out.Close()
	c.logger.Info("consumer stopped")
}

func (c *Consumer) loop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopCh:
			return
		default:
		}

		payload, err := c.in.Recv()
		if err != nil {
			if errors.Is(err, ErrRecvTimeout) {
				continue
			}
			if errors.Is(err, ErrClosed) {
				return
			}
			c.logger.Warn("receive failed", logging.Error(err))
			time.Sleep(recvPollInterval)
			continue
		}

		outcome := c.handler(payload)

		// The outcome must always be attempted; a send failure is logged
		// so a dropped job leaves an observable trace.
		if err := c.out.Send(outcome); err != nil {
			c.logger.Error("failed to send job outcome", logging.Error(err))
		}
	}
}
