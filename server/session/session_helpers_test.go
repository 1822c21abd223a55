package session

import (
	"io"
	"net"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeTransport is a minimal Transport stub for tests that never actually
// exercise the wire, only the session logic driving it.
type fakeTransport struct {
	onSend func([]byte) error
	onRecv func() ([]byte, error)
}

func (f *fakeTransport) Send(frame []byte) error {
	if f.onSend != nil {
		return f.onSend(frame)
	}
	return nil
}

func (f *fakeTransport) Recv() ([]byte, error) {
	if f.onRecv != nil {
		return f.onRecv()
	}
	return nil, io.EOF
}

func (f *fakeTransport) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 19132}
}
