package session

import (
	"testing"

	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(nil, AuthPolicy{}, Config{StartingChunkRange: 8}, testLogger())
	s.identity = IdentityData{DisplayName: "Steve", XUID: "42"}
	return s
}

func TestDispatchPlayerAuthInputUpdatesEntity(t *testing.T) {
	s := newTestSession(t)
	input := &packet.PlayerAuthInput{
		Pitch:   10,
		Yaw:     20,
		HeadYaw: 30,
	}
	if err := s.Dispatch(input); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if s.entity == nil {
		t.Fatal("expected entity handle to be created")
	}
	if s.entity.Pitch != 10 || s.entity.Yaw != 20 || s.entity.HeadYaw != 30 {
		t.Fatalf("expected orientation to be copied from input, got %+v", s.entity)
	}
}

func TestDispatchMovePlayerIgnored(t *testing.T) {
	s := newTestSession(t)
	if err := s.Dispatch(&packet.MovePlayer{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if s.entity.Position != [3]float32{} {
		t.Fatalf("expected server-authoritative position untouched by client move-player, got %+v", s.entity.Position)
	}
}

func TestDispatchTextOverridesSenderIdentity(t *testing.T) {
	s := newTestSession(t)
	var broadcasted packet.Packet
	s.BroadcastFunc = func(pk packet.Packet) { broadcasted = pk }

	msg := &packet.Text{SourceName: "Spoofed", XUID: "0000", Message: "hi"}
	if err := s.Dispatch(msg); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	text, ok := broadcasted.(*packet.Text)
	if !ok {
		t.Fatalf("expected broadcasted text packet, got %T", broadcasted)
	}
	if text.SourceName != "Steve" || text.XUID != "42" {
		t.Fatalf("expected server-resolved identity, got %+v", text)
	}
}

func TestOpenContainerGuardsDuplicateEmission(t *testing.T) {
	s := newTestSession(t)
	s.containerOpenEmitted = map[uint32]bool{}
	var sentCount int
	s.transport = &fakeTransport{onSend: func([]byte) error { sentCount++; return nil }}

	s.OpenContainer(1, &packet.ContainerOpen{WindowID: 1})
	s.OpenContainer(1, &packet.ContainerOpen{WindowID: 1})
	s.OpenContainer(2, &packet.ContainerOpen{WindowID: 2})

	if sentCount != 2 {
		t.Fatalf("expected only the first open per window id to be sent, got %d sends", sentCount)
	}
}

func TestDispatchInteractOpenInventoryGuardsDuplicateEmission(t *testing.T) {
	s := newTestSession(t)
	var sentCount int
	s.transport = &fakeTransport{onSend: func([]byte) error { sentCount++; return nil }}

	open := &packet.Interact{ActionType: packet.InteractActionOpenInventory, TargetEntityRuntimeID: 7}
	if err := s.Dispatch(open); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := s.Dispatch(open); err != nil {
		t.Fatalf("dispatch (second): %v", err)
	}
	if sentCount != 1 {
		t.Fatalf("expected a repeated open-inventory interact to only emit one container-open, got %d sends", sentCount)
	}
}

func TestDispatchInteractIgnoresOtherActions(t *testing.T) {
	s := newTestSession(t)
	var sentCount int
	s.transport = &fakeTransport{onSend: func([]byte) error { sentCount++; return nil }}

	if err := s.Dispatch(&packet.Interact{ActionType: packet.InteractActionMouseOverEntity}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if sentCount != 0 {
		t.Fatalf("expected non-open-inventory interacts to emit nothing, got %d sends", sentCount)
	}
}

func TestDispatchChunkRadiusRequestSendsSpawnChunkOnce(t *testing.T) {
	s := newTestSession(t)
	var sendCount int
	s.transport = &fakeTransport{onSend: func([]byte) error { sendCount++; return nil }}

	if err := s.handleChunkRadiusRequest(&packet.RequestChunkRadius{ChunkRadius: 64}); err != nil {
		t.Fatalf("handle chunk radius: %v", err)
	}
	if !s.spawnChunkSent {
		t.Fatal("expected spawnChunkSent to be set after first chunk radius request")
	}
	firstCount := sendCount

	if err := s.handleChunkRadiusRequest(&packet.RequestChunkRadius{ChunkRadius: 64}); err != nil {
		t.Fatalf("handle chunk radius (second): %v", err)
	}
	if sendCount-firstCount != 2 {
		t.Fatalf("expected the second request to skip the spawn chunk, sent %d more frames", sendCount-firstCount)
	}
}
