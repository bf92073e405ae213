package transport

import (
	"sync"
	"time"
)

// MockSocketFactory wires pull and push sockets through in-process channels,
// keyed by address. Sockets created by the same factory see each other, so a
// test can stand up the whole worker pipeline without network I/O.
type MockSocketFactory struct {
	mu     sync.Mutex
	queues map[string]chan []byte
}

// NewMockSocketFactory creates a new in-process socket factory.
func NewMockSocketFactory() *MockSocketFactory {
	return &MockSocketFactory{queues: make(map[string]chan []byte)}
}

func (f *MockSocketFactory) queue(addr string) chan []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queues[addr]
	if !ok {
		q = make(chan []byte, 64)
		f.queues[addr] = q
	}
	return q
}

type mockSocket struct {
	factory      *MockSocketFactory
	mu           sync.Mutex
	queue        chan []byte
	recvDeadline time.Duration
	closed       chan struct{}
	closeOnce    sync.Once
}

func (f *MockSocketFactory) newSocket() *mockSocket {
	return &mockSocket{factory: f, closed: make(chan struct{})}
}

// NewPullSocket returns a socket whose Listen attaches it to the channel for
// the given address.
func (f *MockSocketFactory) NewPullSocket() (ListenSocket, error) {
	return f.newSocket(), nil
}

// NewPushSocket returns a socket whose Dial attaches it to the channel for
// the given address.
func (f *MockSocketFactory) NewPushSocket() (DialSocket, error) {
	return f.newSocket(), nil
}

// Push injects a message into the queue for addr, as a remote peer would.
func (f *MockSocketFactory) Push(addr string, data []byte) {
	f.queue(addr) <- data
}

// Pull receives a message from the queue for addr, blocking up to timeout.
func (f *MockSocketFactory) Pull(addr string, timeout time.Duration) ([]byte, bool) {
	select {
	case data := <-f.queue(addr):
		return data, true
	case <-time.After(timeout):
		return nil, false
	}
}

func (s *mockSocket) attach(addr string) {
	s.mu.Lock()
	s.queue = s.factory.queue(addr)
	s.mu.Unlock()
}

func (s *mockSocket) Listen(addr string) error {
	s.attach(addr)
	return nil
}

func (s *mockSocket) Dial(addr string) error {
	s.attach(addr)
	return nil
}

func (s *mockSocket) Send(data []byte) error {
	s.mu.Lock()
	q := s.queue
	s.mu.Unlock()
	if q == nil {
		return ErrClosed
	}
	select {
	case q <- data:
		return nil
	case <-s.closed:
		return ErrClosed
	}
}

func (s *mockSocket) Recv() ([]byte, error) {
	s.mu.Lock()
	q := s.queue
	d := s.recvDeadline
	s.mu.Unlock()
	if q == nil {
		return nil, ErrClosed
	}

	if d <= 0 {
		select {
		case data := <-q:
			return data, nil
		case <-s.closed:
			return nil, ErrClosed
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case data := <-q:
		return data, nil
	case <-timer.C:
		return nil, ErrRecvTimeout
	case <-s.closed:
		return nil, ErrClosed
	}
}

func (s *mockSocket) SetRecvDeadline(d time.Duration) error {
	s.mu.Lock()
	s.recvDeadline = d
	s.mu.Unlock()
	return nil
}

func (s *mockSocket) SetSendDeadline(time.Duration) error { return nil }

func (s *mockSocket) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}

var _ SocketFactory = (*MockSocketFactory)(nil)
