package session

import (
	"testing"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

func slotInfo(container, slot byte, id int32) protocol.StackRequestSlotInfo {
	return protocol.StackRequestSlotInfo{ContainerID: container, Slot: slot, StackNetworkID: id}
}

func TestItemStackTrackerTransferMovesCount(t *testing.T) {
	containers := NewContainerSet()
	inv := NewInventory(36)
	inv.SetSlot(0, Stack{NetworkID: 5, Count: 10})
	containers.Register(containerIDInventory, inv)

	tracker := newItemStackTracker()
	var sent []packet.Packet
	send := func(pk packet.Packet) { sent = append(sent, pk) }

	req := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{{
		RequestID: 1,
		Actions: []protocol.StackRequestAction{
			&protocol.TakeStackRequestAction{
				Count: 4,
				Source: slotInfo(containerIDInventory, 0, 5),
				Destination: slotInfo(containerIDInventory, 1, 0),
			},
		},
	}}}
	tracker.Handle(req, containers, send)

	if len(sent) != 1 {
		t.Fatalf("expected one response, got %d", len(sent))
	}
	resp, ok := sent[0].(*packet.ItemStackResponse)
	if !ok {
		t.Fatalf("expected ItemStackResponse, got %T", sent[0])
	}
	if resp.Responses[0].Status != protocol.ItemStackResponseStatusOK {
		t.Fatalf("expected OK status, got %v", resp.Responses[0].Status)
	}
	if got := inv.Slot(0); got.Count != 6 {
		t.Fatalf("expected 6 left in source slot, got %d", got.Count)
	}
	if got := inv.Slot(1); got.Count != 4 || got.NetworkID != 5 {
		t.Fatalf("expected 4 of item 5 in dest slot, got %+v", got)
	}
}

func TestItemStackTrackerRejectsStaleSourceID(t *testing.T) {
	containers := NewContainerSet()
	inv := NewInventory(36)
	inv.SetSlot(0, Stack{NetworkID: 5, Count: 10})
	containers.Register(containerIDInventory, inv)

	tracker := newItemStackTracker()
	var sent []packet.Packet
	send := func(pk packet.Packet) { sent = append(sent, pk) }

	req := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{{
		RequestID: 1,
		Actions: []protocol.StackRequestAction{
			&protocol.TakeStackRequestAction{
				Count: 4,
				// Client claims the wrong network ID for the source slot.
				Source:      slotInfo(containerIDInventory, 0, 999),
				Destination: slotInfo(containerIDInventory, 1, 0),
			},
		},
	}}}
	tracker.Handle(req, containers, send)

	resp := sent[0].(*packet.ItemStackResponse)
	if resp.Responses[0].Status != protocol.ItemStackResponseStatusError {
		t.Fatalf("expected error status for mismatched stack id, got %v", resp.Responses[0].Status)
	}
	if got := inv.Slot(0); got.Count != 10 {
		t.Fatalf("expected source slot untouched after rejection, got %+v", got)
	}
}

func TestItemStackTrackerSwap(t *testing.T) {
	containers := NewContainerSet()
	inv := NewInventory(36)
	inv.SetSlot(0, Stack{NetworkID: 5, Count: 10})
	inv.SetSlot(1, Stack{NetworkID: 6, Count: 3})
	containers.Register(containerIDInventory, inv)

	tracker := newItemStackTracker()
	var sent []packet.Packet
	send := func(pk packet.Packet) { sent = append(sent, pk) }

	req := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{{
		RequestID: 1,
		Actions: []protocol.StackRequestAction{
			&protocol.SwapStackRequestAction{
				Source:      slotInfo(containerIDInventory, 0, 5),
				Destination: slotInfo(containerIDInventory, 1, 6),
			},
		},
	}}}
	tracker.Handle(req, containers, send)

	resp := sent[0].(*packet.ItemStackResponse)
	if resp.Responses[0].Status != protocol.ItemStackResponseStatusOK {
		t.Fatalf("expected OK status, got %v", resp.Responses[0].Status)
	}
	if got := inv.Slot(0); got.NetworkID != 6 || got.Count != 3 {
		t.Fatalf("expected slot 0 to hold item 6 x3, got %+v", got)
	}
	if got := inv.Slot(1); got.NetworkID != 5 || got.Count != 10 {
		t.Fatalf("expected slot 1 to hold item 5 x10, got %+v", got)
	}
}

func TestItemStackTrackerDestroyReducesCount(t *testing.T) {
	containers := NewContainerSet()
	inv := NewInventory(36)
	inv.SetSlot(0, Stack{NetworkID: 5, Count: 10})
	containers.Register(containerIDInventory, inv)

	tracker := newItemStackTracker()
	var sent []packet.Packet
	send := func(pk packet.Packet) { sent = append(sent, pk) }

	req := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{{
		RequestID: 1,
		Actions: []protocol.StackRequestAction{
			&protocol.DestroyStackRequestAction{
				Count:  4,
				Source: slotInfo(containerIDInventory, 0, 5),
			},
		},
	}}}
	tracker.Handle(req, containers, send)

	resp := sent[0].(*packet.ItemStackResponse)
	if resp.Responses[0].Status != protocol.ItemStackResponseStatusOK {
		t.Fatalf("expected OK status, got %v", resp.Responses[0].Status)
	}
	if got := inv.Slot(0); got.Count != 6 {
		t.Fatalf("expected 6 left after destroying 4, got %d", got.Count)
	}
}

func TestItemStackTrackerResolvesChainedResponseID(t *testing.T) {
	containers := NewContainerSet()
	inv := NewInventory(36)
	inv.SetSlot(0, Stack{NetworkID: 5, Count: 10})
	containers.Register(containerIDInventory, inv)

	tracker := newItemStackTracker()
	var sent []packet.Packet
	send := func(pk packet.Packet) { sent = append(sent, pk) }

	req := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{
		{
			// Real Bedrock clients count request IDs down from -1; the
			// negative value doubles as the key a later request in the
			// same batch uses to reference this one's not-yet-acked
			// slot changes.
			RequestID: -1,
			Actions: []protocol.StackRequestAction{
				&protocol.TakeStackRequestAction{
					Count:       10,
					Source:      slotInfo(containerIDInventory, 0, 5),
					Destination: slotInfo(containerIDInventory, 1, 0),
				},
			},
		},
		{
			RequestID: -2,
			Actions: []protocol.StackRequestAction{
				&protocol.TakeStackRequestAction{
					Count:       10,
					Source:      slotInfo(containerIDInventory, 1, -1),
					Destination: slotInfo(containerIDInventory, 2, 0),
				},
			},
		},
	}}
	tracker.Handle(req, containers, send)

	if len(sent) != 2 {
		t.Fatalf("expected two responses, got %d", len(sent))
	}
	for i, pk := range sent {
		resp := pk.(*packet.ItemStackResponse)
		if resp.Responses[0].Status != protocol.ItemStackResponseStatusOK {
			t.Fatalf("response %d: expected OK, got %v", i, resp.Responses[0].Status)
		}
	}
	if got := inv.Slot(2); got.Count != 10 || got.NetworkID != 5 {
		t.Fatalf("expected final slot to hold transferred stack, got %+v", got)
	}
}
