package session

import "net"

// Transport is the byte-oriented link a Session drives the protocol over.
// Implementations must deliver ordered, complete frames: one Send call is
// one frame, one Recv call returns one frame or the end of stream.
//
// This package never implements Transport itself — raknet, a loopback pipe
// for tests, or anything else satisfying the interface can sit underneath
// a Session.
type Transport interface {
	// Send writes one complete frame. Implementations must not split it
	// across multiple underlying writes in a way that could interleave
	// with another Send.
	Send(frame []byte) error

	// Recv blocks until the next complete frame arrives, or returns
	// ErrTransportClosed once the peer disconnects.
	Recv() ([]byte, error)

	// RemoteAddr identifies the peer, used only for logging.
	RemoteAddr() net.Addr
}

// IdentityOracle anchors the online-authentication root of trust: it knows
// the public key online identity chains must ultimately chain up to.
// AuthPolicy.ValidateLoginChain consults it on every login, including
// when legacy auth is allowed, before trying the self-signed check.
type IdentityOracle interface {
	// TrustedRoot returns the DER-encoded root public key online identity
	// chains are expected to terminate at.
	TrustedRoot() []byte
}
