package session

import (
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"

	"github.com/unastar-mc/unastar/server/internal/numeric"
)

// EntityHandle is the game-tick dispatcher's view of the player this
// Session drives: just enough state for C13's movement and chat dispatch
// to mutate, never entity AI or world logic.
type EntityHandle struct {
	Position        [3]float32
	Pitch, Yaw      float32
	HeadYaw         float32
	InputFlags      uint64
	DisplayName     string
}

// Dispatch resolves the session's entity handle, then switches on message
// variant. Called only once the session is InGame.
func (s *Session) Dispatch(pk packet.Packet) error {
	if s.entity == nil {
		s.entity = &EntityHandle{DisplayName: s.identity.DisplayName}
	}

	switch p := pk.(type) {
	case *packet.PlayerAuthInput:
		s.handlePlayerAuthInput(p)
		return nil

	case *packet.MovePlayer:
		// Server-authoritative movement: client-originated move-player is
		// ignored entirely.
		return nil

	case *packet.ItemStackRequest:
		s.responses.Handle(p, s.containers, s.send)
		return nil

	case *packet.Interact:
		return s.handleInteract(p)

	case *packet.Text:
		return s.handleText(p)

	case *packet.RequestChunkRadius:
		return s.handleChunkRadiusRequest(p)

	case *packet.ClientCacheStatus:
		// Always discarded once InGame; no setting changes this. A cache
		// status arriving before InGame is rejected by handleHandshakePacket
		// like any other unexpected packet.
		return nil

	default:
		return nil
	}
}

// send encodes pk and writes it to the transport, logging (never
// panicking on) a failure: the game-tick dispatcher never lets a single
// bad outbound packet take the session down.
func (s *Session) send(pk packet.Packet) {
	frame, err := s.encodePacket(pk)
	if err != nil {
		s.log.WithError(err).Debug("session: failed to encode outbound packet")
		return
	}
	if err := s.transport.Send(frame); err != nil {
		s.log.WithError(err).Debug("session: failed to send outbound packet")
	}
}

func (s *Session) handlePlayerAuthInput(p *packet.PlayerAuthInput) {
	s.entity.Position = [3]float32{p.Position.X(), p.Position.Y(), p.Position.Z()}
	s.entity.Pitch = p.Pitch
	s.entity.Yaw = p.Yaw
	s.entity.HeadYaw = p.HeadYaw
	s.entity.InputFlags = uint64(p.InputData)
}

// handleInteract answers an open-inventory interact by emitting a
// container-open packet for the player's own inventory window, through
// OpenContainer so a client that sends the interact twice (or races it
// against another window-open trigger) only ever gets one.
func (s *Session) handleInteract(p *packet.Interact) error {
	if p.ActionType != packet.InteractActionOpenInventory {
		return nil
	}
	s.OpenContainer(uint32(containerIDInventory), &packet.ContainerOpen{
		WindowID:                containerIDInventory,
		ContainerType:           protocol.ContainerTypeInventory,
		ContainerEntityUniqueID: int64(p.TargetEntityRuntimeID),
	})
	return nil
}

func (s *Session) handleText(p *packet.Text) error {
	p.SourceName = s.entity.DisplayName
	p.XUID = s.identity.XUID
	s.broadcast(p)
	return nil
}

// broadcast fans a chat packet out to every other InGame session. Nil in
// tests that exercise dispatch in isolation.
func (s *Session) broadcast(pk packet.Packet) {
	if s.BroadcastFunc != nil {
		s.BroadcastFunc(pk)
	}
}

func (s *Session) handleChunkRadiusRequest(p *packet.RequestChunkRadius) error {
	radius := numeric.Clamp(p.ChunkRadius, int32(1), s.cfg.StartingChunkRange)
	s.send(&packet.ChunkRadiusUpdated{ChunkRadius: radius})
	s.send(&packet.NetworkChunkPublisherUpdate{Radius: uint32(radius)})
	if !s.spawnChunkSent {
		s.send(&packet.LevelChunk{SubChunkCount: 0})
		s.spawnChunkSent = true
	}
	return nil
}

// OpenContainer emits a container-open packet for windowID, unless one
// was already emitted for it: clients crash on a second open for the
// same window.
func (s *Session) OpenContainer(windowID uint32, pk *packet.ContainerOpen) {
	if s.containerOpenEmitted[windowID] {
		return
	}
	s.containerOpenEmitted[windowID] = true
	s.send(pk)
}
