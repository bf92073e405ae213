// Package transport carries job requests and outcome messages over queue
// sockets. The narrow Socket interfaces abstract the underlying messaging
// library (mangos by default, ZeroMQ behind the zmq build tag, in-process
// mocks for tests).
package transport

import (
	"errors"
	"io"
	"time"
)

// ErrRecvTimeout is returned by Recv when the receive deadline elapses with
// no message. Implementations translate their library's timeout error so
// consumers stay transport-agnostic.
var ErrRecvTimeout = errors.New("transport: receive timed out")

// ErrClosed is returned by socket operations after Close.
var ErrClosed = errors.New("transport: socket closed")

// Socket is a messaging socket that can send and receive messages.
type Socket interface {
	io.Closer
	Send([]byte) error
	Recv() ([]byte, error)
	SetRecvDeadline(d time.Duration) error
	SetSendDeadline(d time.Duration) error
}

// ListenSocket is a socket that binds to an address and accepts connections.
type ListenSocket interface {
	Socket
	Listen(addr string) error
}

// DialSocket is a socket that connects to a remote address.
type DialSocket interface {
	Socket
	Dial(addr string) error
}

// SocketFactory creates sockets for the queue patterns the worker uses:
// PULL listeners for job intake and PUSH dialers for job outcomes.
type SocketFactory interface {
	NewPullSocket() (ListenSocket, error)
	NewPushSocket() (DialSocket, error)
}

// QueueConfig holds the four queue endpoints: the worker listens on the
// request addresses and dials the response addresses.
type QueueConfig struct {
	MapRequestAddr   string `yaml:"map_request_addr"`
	MapResponseAddr  string `yaml:"map_response_addr"`
	TourRequestAddr  string `yaml:"tour_request_addr"`
	TourResponseAddr string `yaml:"tour_response_addr"`
}

// DefaultQueueConfig returns the default local endpoints.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		MapRequestAddr:   "tcp://127.0.0.1:5741",
		MapResponseAddr:  "tcp://127.0.0.1:5742",
		TourRequestAddr:  "tcp://127.0.0.1:5743",
		TourResponseAddr: "tcp://127.0.0.1:5744",
	}
}

// DialWithRetry dials addr, retrying with a fixed delay. Connectivity is the
// one failure class that is retried at the transport level.
func DialWithRetry(sock DialSocket, addr string, attempts int, delay time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = sock.Dial(addr); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return err
}
