package session

import "errors"

// Error taxonomy for the framed-session protocol. Session code compares
// against these with errors.Is rather than string matching; each maps to a
// disconnect reason chosen by the caller that observes it (see
// Session.fail callers in session.go).
var (
	// ErrTransportClosed means the peer is gone. The session task exits
	// cleanly without sending a disconnect message.
	ErrTransportClosed = errors.New("session: transport closed")

	// ErrMalformedBatch covers truncation, a bad batch marker, an unknown
	// compression sentinel, or a decompressed size exceeding the configured
	// cap. Disconnect reason: BadPacket.
	ErrMalformedBatch = errors.New("session: malformed batch")

	// ErrUnexpectedHandshake means a message variant arrived that the
	// current handshake state does not accept. Disconnect reason:
	// UnexpectedPacket.
	ErrUnexpectedHandshake = errors.New("session: unexpected handshake packet")

	// ErrAuthRejected means the login JWT chain failed signature or
	// root-of-trust verification. Token expiry is not checked. Disconnect
	// reason: LoginFailed.
	ErrAuthRejected = errors.New("session: authentication rejected")

	// ErrAuthMalformed means the login payload could not be parsed or
	// base64-decoded. Disconnect reason: LoginFailed.
	ErrAuthMalformed = errors.New("session: authentication malformed")

	// ErrAuthOfflineBlocked means a self-signed (offline) identity chain
	// arrived while legacy-auth is not permitted. Disconnect reason:
	// LoginFailed.
	ErrAuthOfflineBlocked = errors.New("session: offline authentication blocked")

	// ErrAeadReject means AEAD tag verification failed. The session must
	// terminate and never accept another frame after this.
	ErrAeadReject = errors.New("session: AEAD tag verification failed")

	// ErrHandshakeCrypto means key material presented during the encryption
	// handshake was malformed: not a valid P-384 point, or not valid DER.
	ErrHandshakeCrypto = errors.New("session: malformed handshake key material")

	// ErrResourcePackProblem means a required resource pack was refused.
	ErrResourcePackProblem = errors.New("session: resource pack refused")
)
