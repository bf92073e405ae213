package transport

import (
	"errors"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pull"
	"go.nanomsg.org/mangos/v3/protocol/push"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// mangosSocket wraps a mangos.Socket to implement our Socket interface.
type mangosSocket struct {
	sock mangos.Socket
}

func (s *mangosSocket) Send(data []byte) error {
	return s.sock.Send(data)
}

func (s *mangosSocket) Recv() ([]byte, error) {
	data, err := s.sock.Recv()
	if err != nil {
		if errors.Is(err, mangos.ErrRecvTimeout) {
			return nil, ErrRecvTimeout
		}
		if errors.Is(err, mangos.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}
	return data, nil
}

func (s *mangosSocket) Close() error {
	return s.sock.Close()
}

func (s *mangosSocket) SetRecvDeadline(d time.Duration) error {
	return s.sock.SetOption(mangos.OptionRecvDeadline, d)
}

func (s *mangosSocket) SetSendDeadline(d time.Duration) error {
	return s.sock.SetOption(mangos.OptionSendDeadline, d)
}

func (s *mangosSocket) Listen(addr string) error {
	return s.sock.Listen(addr)
}

func (s *mangosSocket) Dial(addr string) error {
	return s.sock.Dial(addr)
}

// MangosSocketFactory creates mangos (nanomsg) sockets. This is the default
// transport: pure Go, no external daemon or cgo.
type MangosSocketFactory struct{}

// NewMangosSocketFactory creates a new mangos socket factory.
func NewMangosSocketFactory() *MangosSocketFactory {
	return &MangosSocketFactory{}
}

func (f *MangosSocketFactory) NewPullSocket() (ListenSocket, error) {
	sock, err := pull.NewSocket()
	if err != nil {
		return nil, err
	}
	return &mangosSocket{sock: sock}, nil
}

func (f *MangosSocketFactory) NewPushSocket() (DialSocket, error) {
	sock, err := push.NewSocket()
	if err != nil {
		return nil, err
	}
	return &mangosSocket{sock: sock}, nil
}

var _ SocketFactory = (*MangosSocketFactory)(nil)
