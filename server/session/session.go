package session

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"

	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/sirupsen/logrus"
)

// State is one stage of the server-side handshake state machine
//. Transitions are driven entirely by receipt of a
// specific inbound message variant; anything else pre-InGame is fatal.
type State int

const (
	Initial State = iota
	NetworkSettingsSent
	EncryptionHandshake
	ResourcePacksInfoSent
	ResourcePackStackSent
	ResourcePackComplete
	ReadyToSpawn
	WaitingForLocalPlayerInit
	InGame
)

func (s State) String() string {
	switch s {
	case Initial:
		return "Initial"
	case NetworkSettingsSent:
		return "NetworkSettingsSent"
	case EncryptionHandshake:
		return "EncryptionHandshake"
	case ResourcePacksInfoSent:
		return "ResourcePacksInfoSent"
	case ResourcePackStackSent:
		return "ResourcePackStackSent"
	case ResourcePackComplete:
		return "ResourcePackComplete"
	case ReadyToSpawn:
		return "ReadyToSpawn"
	case WaitingForLocalPlayerInit:
		return "WaitingForLocalPlayerInit"
	case InGame:
		return "InGame"
	default:
		return "Unknown"
	}
}

// Config is the environment input set a Session is built from.
type Config struct {
	OnlineMode         bool
	LegacyAuthAllowed  bool
	EncryptionEnabled  bool
	CompressionLevel   int
	CompressionCutoff  int
	MaxDecompressed    int
	ResourcePacksFunc  func() []ResourcePack
	RequirePacks       bool
	StartingChunkRange int32
}

// ResourcePack is the subset of pack metadata the handshake needs to
// announce; pack content delivery is out of this package's scope.
type ResourcePack struct {
	UUID    string
	Version string
}

// Session owns one connection's handshake state, cipher state, and
// container set exclusively: no cross-task sharing of session fields and
// no locks protecting them, so every exported method
// here must only ever be called from the single task driving this
// Session's recv loop.
type Session struct {
	log       *logrus.Logger
	transport Transport
	auth      AuthPolicy
	cfg       Config

	state State
	batch BatchCodec

	sendCipher *SessionCipher
	recvCipher *SessionCipher
	serverKey  *HandshakeKeyPair
	salt       []byte

	identity IdentityData
	entity   *EntityHandle

	// BroadcastFunc fans a chat packet out to every other InGame session;
	// set by the owning server, left nil in isolated dispatch tests.
	BroadcastFunc func(packet.Packet)

	containers *ContainerSet
	responses  *itemStackTracker

	pendingSendCipher *SessionCipher
	pendingRecvCipher *SessionCipher

	packStackSent        bool
	spawnChunkSent       bool
	containerOpenEmitted map[uint32]bool

	closed atomic.Bool
}

// NewSession builds a Session over transport in the Initial state.
func NewSession(transport Transport, auth AuthPolicy, cfg Config, log *logrus.Logger) *Session {
	return &Session{
		log:                  log,
		transport:            transport,
		auth:                 auth,
		cfg:                  cfg,
		state:                Initial,
		containers:           NewContainerSet(),
		responses:            newItemStackTracker(),
		containerOpenEmitted: map[uint32]bool{},
	}
}

// State reports the session's current handshake state.
func (s *Session) State() State { return s.state }

// fail disconnects the session with reason after logging err: every error
// but ErrTransportClosed terminates the session after a best-effort
// encrypted disconnect message.
func (s *Session) fail(err error, reason string) error {
	s.log.WithError(err).Debugf("session %v: disconnecting (%s)", s.transport.RemoteAddr(), reason)
	s.Disconnect(reason)
	return err
}

// Disconnect sends a best-effort disconnect packet and marks the session
// closed. Send errors during teardown are swallowed (original_source
// stream.rs::send_disconnect).
func (s *Session) Disconnect(reason string) {
	if s.closed.Swap(true) {
		return
	}
	frame, err := s.encodePacket(&packet.Disconnect{Message: reason})
	if err == nil {
		_ = s.transport.Send(frame)
	}
}

// encodePacket batches a single packet and, once active, encrypts the
// frame, advancing the send-direction AEAD counter.
func (s *Session) encodePacket(pk packet.Packet) ([]byte, error) {
	body, err := marshalPacket(pk)
	if err != nil {
		return nil, fmt.Errorf("session: marshal packet: %w", err)
	}
	frame, err := s.batch.Encode([][]byte{body})
	if err != nil {
		return nil, err
	}
	if s.sendCipher != nil {
		frame = s.sendCipher.Encrypt(frame)
	}
	return frame, nil
}

// HandleRaw processes one inbound transport frame, routing it through the
// handshake state machine or, once InGame, the game-tick dispatcher
//.
func (s *Session) HandleRaw(frame []byte) error {
	if s.recvCipher != nil {
		plain, err := s.recvCipher.Decrypt(frame)
		if err != nil {
			return s.fail(err, "BadPacket")
		}
		frame = plain
	}

	// The initial network-settings-request/reply pair is sent raw, with
	// no batch marker, because compression is negotiated by that very
	// exchange.
	if s.state == Initial {
		pk, err := unmarshalPacket(frame)
		if err != nil {
			return s.fail(fmt.Errorf("%w: %w", ErrMalformedBatch, err), "BadPacket")
		}
		return s.handleHandshakePacket(pk)
	}

	messages, err := s.batch.Decode(frame)
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	for _, body := range messages {
		pk, err := unmarshalPacket(body)
		if err != nil {
			return s.fail(fmt.Errorf("%w: %w", ErrMalformedBatch, err), "BadPacket")
		}
		if s.state < InGame {
			if err := s.handleHandshakePacket(pk); err != nil {
				return err
			}
			continue
		}
		if err := s.Dispatch(pk); err != nil {
			s.log.WithError(err).Debug("session: dispatch error, continuing")
		}
	}
	return nil
}

func (s *Session) handleHandshakePacket(pk packet.Packet) error {
	switch s.state {
	case Initial:
		if _, ok := pk.(*packet.RequestNetworkSettings); !ok {
			return s.fail(fmt.Errorf("%w: got %T in Initial", ErrUnexpectedHandshake, pk), "UnexpectedPacket")
		}
		reply, err := marshalPacket(&packet.NetworkSettings{
			CompressionThreshold: uint16(s.cfg.CompressionCutoff),
			CompressionAlgorithm: 0,
		})
		if err != nil {
			return s.fail(err, "BadPacket")
		}
		if err := s.transport.Send(reply); err != nil {
			return err
		}
		s.batch = BatchCodec{
			CompressionEnabled: true,
			Level:              s.cfg.CompressionLevel,
			Threshold:          s.cfg.CompressionCutoff,
			MaxDecompressed:    s.cfg.MaxDecompressed,
		}
		s.state = NetworkSettingsSent
		return nil

	case NetworkSettingsSent:
		login, ok := pk.(*packet.Login)
		if !ok {
			return s.fail(fmt.Errorf("%w: got %T in NetworkSettingsSent", ErrUnexpectedHandshake, pk), "UnexpectedPacket")
		}
		return s.handleLogin(login)

	case EncryptionHandshake:
		if _, ok := pk.(*packet.ClientToServerHandshake); !ok {
			return s.fail(fmt.Errorf("%w: got %T in EncryptionHandshake", ErrUnexpectedHandshake, pk), "UnexpectedPacket")
		}
		s.sendCipher, s.recvCipher = s.pendingSendCipher, s.pendingRecvCipher
		return s.finishLogin()

	case ResourcePacksInfoSent, ResourcePackStackSent:
		resp, ok := pk.(*packet.ResourcePackClientResponse)
		if !ok {
			return s.fail(fmt.Errorf("%w: got %T in %v", ErrUnexpectedHandshake, pk, s.state), "UnexpectedPacket")
		}
		return s.handleResourcePackResponse(resp)

	case WaitingForLocalPlayerInit:
		if _, ok := pk.(*packet.SetLocalPlayerAsInitialised); !ok {
			return s.fail(fmt.Errorf("%w: got %T in WaitingForLocalPlayerInit", ErrUnexpectedHandshake, pk), "UnexpectedPacket")
		}
		s.state = InGame
		return nil

	default:
		return s.fail(fmt.Errorf("%w: got %T in %v", ErrUnexpectedHandshake, pk, s.state), "UnexpectedPacket")
	}
}

// handleLogin authenticates the login chain (C4) and, depending on
// EncryptionEnabled, either starts the encryption handshake or proceeds
// straight to resource packs.
func (s *Session) handleLogin(login *packet.Login) error {
	chain, clientJWT, err := splitLoginTokens(login)
	if err != nil {
		return s.fail(fmt.Errorf("%w: %w", ErrAuthMalformed, err), "LoginFailed")
	}

	identity, err := s.auth.ValidateLoginChain(chain, clientJWT)
	if err != nil {
		return s.fail(err, "LoginFailed")
	}
	s.identity = identity

	if !s.cfg.OnlineMode && identity.Authority == AuthorityOnline {
		// Online mode is off: treat even a verified chain as non-authoritative.
		s.identity.Authority = AuthorityOffline
	}

	if !s.cfg.EncryptionEnabled {
		return s.sendLoginSuccessAndPacksInfo()
	}

	keyPair, err := NewHandshakeKeyPair()
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	s.serverKey = keyPair
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return s.fail(err, "BadPacket")
	}
	s.salt = salt

	key, ivBase, err := DeriveSessionKey(keyPair, identity.PublicKey, salt)
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	sendC, err := NewSessionCipher(key, ivBase)
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	recvC, err := NewSessionCipher(key, ivBase)
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	s.pendingSendCipher, s.pendingRecvCipher = sendC, recvC

	der, err := keyPair.PublicKeyDER()
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	token, err := SignHandshakeToken(s.serverKey.SigningKey(), der, salt)
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	frame, err := s.encodePacket(&packet.ServerToClientHandshake{JWT: []byte(token)})
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	if err := s.transport.Send(frame); err != nil {
		return err
	}
	s.state = EncryptionHandshake
	return nil
}

// finishLogin sends play-status LoginSuccess and resource-packs-info,
// shared by both the encrypted and unencrypted login paths.
func (s *Session) finishLogin() error {
	return s.sendLoginSuccessAndPacksInfo()
}

func (s *Session) sendLoginSuccessAndPacksInfo() error {
	status, err := s.encodePacket(&packet.PlayStatus{Status: packet.PlayStatusLoginSuccess})
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	if err := s.transport.Send(status); err != nil {
		return err
	}
	packs := s.cfg.ResourcePacksFunc
	var entries []ResourcePack
	if packs != nil {
		entries = packs()
	}
	info, err := s.encodePacket(&packet.ResourcePacksInfo{
		TexturePackRequired: s.cfg.RequirePacks && len(entries) > 0,
	})
	if err != nil {
		return s.fail(err, "BadPacket")
	}
	if err := s.transport.Send(info); err != nil {
		return err
	}
	s.state = ResourcePacksInfoSent
	return nil
}

func (s *Session) handleResourcePackResponse(resp *packet.ResourcePackClientResponse) error {
	switch resp.Response {
	case packet.PackResponseSendPacks, packet.PackResponseAllPacksDownloaded:
		frame, err := s.encodePacket(&packet.ResourcePackStack{})
		if err != nil {
			return s.fail(err, "BadPacket")
		}
		if err := s.transport.Send(frame); err != nil {
			return err
		}
		s.packStackSent = true
		s.state = ResourcePackStackSent
		return nil

	case packet.PackResponseCompleted:
		s.state = ResourcePackComplete
		return s.enterReadyToSpawn()

	case packet.PackResponseRefused:
		if s.cfg.RequirePacks {
			return s.fail(fmt.Errorf("%w", ErrResourcePackProblem), "ResourcePackProblem")
		}
		return nil

	default:
		// None: ignored.
		return nil
	}
}

// enterReadyToSpawn runs the spawn sequence (start-game through
// play-status PlayerSpawn) and transitions to WaitingForLocalPlayerInit.
func (s *Session) enterReadyToSpawn() error {
	s.state = ReadyToSpawn
	s.containers.Register(containerIDInventory, NewInventory(36))
	s.containers.Register(containerIDOffhand, NewInventory(1))
	s.containers.Register(containerIDCursor, NewInventory(1))
	sequence := []packet.Packet{
		&packet.StartGame{},
		&packet.BiomeDefinitionList{},
		&packet.ItemRegistry{},
		&packet.AvailableEntityIdentifiers{},
		&packet.CreativeContent{},
		&packet.ChunkRadiusUpdated{ChunkRadius: s.cfg.StartingChunkRange},
		&packet.NetworkChunkPublisherUpdate{Radius: uint32(s.cfg.StartingChunkRange)},
		&packet.PlayStatus{Status: packet.PlayStatusPlayerSpawn},
	}
	for _, pk := range sequence {
		frame, err := s.encodePacket(pk)
		if err != nil {
			return s.fail(err, "BadPacket")
		}
		if err := s.transport.Send(frame); err != nil {
			return err
		}
	}
	s.state = WaitingForLocalPlayerInit
	return nil
}
