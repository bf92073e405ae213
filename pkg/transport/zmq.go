//go:build zmq
// +build zmq

package transport

import (
	"syscall"
	"time"

	zmq "github.com/pebbe/zmq4"
)

// zmqSocket wraps a ZeroMQ socket to implement our Socket interface.
// ZeroMQ sockets are not thread-safe; each socket stays on the goroutine
// that uses it, which the consumer loop guarantees.
type zmqSocket struct {
	sock *zmq.Socket
}

func (s *zmqSocket) Send(data []byte) error {
	_, err := s.sock.SendBytes(data, 0)
	return err
}

func (s *zmqSocket) Recv() ([]byte, error) {
	data, err := s.sock.RecvBytes(0)
	if err != nil {
		if zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN) {
			return nil, ErrRecvTimeout
		}
		return nil, err
	}
	return data, nil
}

func (s *zmqSocket) Close() error {
	return s.sock.Close()
}

func (s *zmqSocket) SetRecvDeadline(d time.Duration) error {
	return s.sock.SetRcvtimeo(d)
}

func (s *zmqSocket) SetSendDeadline(d time.Duration) error {
	return s.sock.SetSndtimeo(d)
}

func (s *zmqSocket) Listen(addr string) error {
	return s.sock.Bind(addr)
}

func (s *zmqSocket) Dial(addr string) error {
	return s.sock.Connect(addr)
}

// ZMQSocketFactory creates ZeroMQ sockets. Requires libzmq and the zmq build
// tag.
type ZMQSocketFactory struct{}

// NewZMQSocketFactory creates a new ZeroMQ socket factory.
func NewZMQSocketFactory() *ZMQSocketFactory {
	return &ZMQSocketFactory{}
}

func (f *ZMQSocketFactory) NewPullSocket() (ListenSocket, error) {
	sock, err := zmq.NewSocket(zmq.PULL)
	if err != nil {
		return nil, err
	}
	return &zmqSocket{sock: sock}, nil
}

func (f *ZMQSocketFactory) NewPushSocket() (DialSocket, error) {
	sock, err := zmq.NewSocket(zmq.PUSH)
	if err != nil {
		return nil, err
	}
	return &zmqSocket{sock: sock}, nil
}

var _ SocketFactory = (*ZMQSocketFactory)(nil)
