package session

import (
	"fmt"
	"time"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// itemStackTracker processes item-stack-request packets against a
// Session's ContainerSet. Only the slot/container bookkeeping actions
// (take, place, swap, destroy) are implemented; crafting, beacon payment,
// and creative-craft require item semantics this module never defines.
type itemStackTracker struct {
	currentRequest  int32
	changes         map[byte]map[byte]protocol.StackResponseSlotInfo
	responseChanges map[int32]map[byte]map[byte]responseChange
	current         time.Time
	ignoreDestroy   bool
}

// responseChange is the timestamp of a response the client will have
// received, used to expire stale entries in responseChanges.
type responseChange struct {
	id        int32
	timestamp time.Time
}

func newItemStackTracker() *itemStackTracker {
	return &itemStackTracker{
		changes:         map[byte]map[byte]protocol.StackResponseSlotInfo{},
		responseChanges: map[int32]map[byte]map[byte]responseChange{},
	}
}

// Handle processes every request in pk against containers, emitting one
// item-stack-response per request.
func (h *itemStackTracker) Handle(pk *packet.ItemStackRequest, containers *ContainerSet, send func(packet.Packet)) {
	h.current = time.Now()
	for _, req := range pk.Requests {
		h.currentRequest = req.RequestID
		if err := h.handleRequest(req, containers); err != nil {
			h.reject(req.RequestID, send)
			continue
		}
		h.resolve(req.RequestID, send)
		h.ignoreDestroy = false
	}
}

func (h *itemStackTracker) handleRequest(req protocol.ItemStackRequest, containers *ContainerSet) error {
	h.ignoreDestroy = false
	for _, action := range req.Actions {
		var err error
		switch a := action.(type) {
		case *protocol.TakeStackRequestAction:
			err = h.handleTransfer(a.Source, a.Destination, a.Count, containers)
		case *protocol.PlaceStackRequestAction:
			err = h.handleTransfer(a.Source, a.Destination, a.Count, containers)
		case *protocol.SwapStackRequestAction:
			err = h.handleSwap(a.Source, a.Destination, containers)
		case *protocol.DestroyStackRequestAction:
			err = h.handleDestroy(a, containers)
		case *protocol.ConsumeStackRequestAction, *protocol.CraftRecipeStackRequestAction,
			*protocol.CraftResultsDeprecatedStackRequestAction, *protocol.CraftCreativeStackRequestAction,
			*protocol.BeaconPaymentStackRequestAction, *protocol.DropStackRequestAction,
			*protocol.MineBlockStackRequestAction:
			// Item-semantics actions (crafting, beacon payment, dropping into the
			// world) are out of scope: this package only answers slot bookkeeping.
		default:
			return fmt.Errorf("unhandled stack request action %#v", action)
		}
		if err != nil {
			return fmt.Errorf("%T: %w", action, err)
		}
		// A destroy immediately following a place is suppressed once.
		_, h.ignoreDestroy = action.(*protocol.PlaceStackRequestAction)
	}
	return nil
}

func (h *itemStackTracker) handleSwap(from, to protocol.StackRequestSlotInfo, containers *ContainerSet) error {
	if err := h.verifySlots(containers, from, to); err != nil {
		return fmt.Errorf("slot out of sync: %w", err)
	}
	src, _ := h.stackInSlot(from, containers)
	dst, _ := h.stackInSlot(to, containers)
	h.setStackInSlot(from, dst, containers)
	h.setStackInSlot(to, src, containers)
	return nil
}

func (h *itemStackTracker) handleDestroy(a *protocol.DestroyStackRequestAction, containers *ContainerSet) error {
	if h.ignoreDestroy {
		return nil
	}
	if err := h.verifySlot(a.Source, containers); err != nil {
		return fmt.Errorf("source slot out of sync: %w", err)
	}
	i, _ := h.stackInSlot(a.Source, containers)
	if i.Count < a.Count {
		return fmt.Errorf("client attempted to destroy %v items, but only %v present", a.Count, i.Count)
	}
	i.Count -= a.Count
	h.setStackInSlot(a.Source, i, containers)
	return nil
}

// handleTransfer moves count items from a source slot to a destination
// slot, the shared logic behind Take and Place.
func (h *itemStackTracker) handleTransfer(from, to protocol.StackRequestSlotInfo, count byte, containers *ContainerSet) error {
	if err := h.verifySlots(containers, from, to); err != nil {
		return fmt.Errorf("source slot out of sync: %w", err)
	}
	src, _ := h.stackInSlot(from, containers)
	dst, _ := h.stackInSlot(to, containers)
	if !dst.Empty() && (src.NetworkID != dst.NetworkID || src.Metadata != dst.Metadata) {
		return fmt.Errorf("client tried transferring %v to %v, but the stacks are incomparable", src, dst)
	}
	if src.Count < count {
		return fmt.Errorf("client tried subtracting %v from item count, but there are only %v", count, src.Count)
	}
	if dst.Empty() {
		dst = Stack{NetworkID: src.NetworkID, Metadata: src.Metadata}
	}

	src.Count -= count
	dst.Count += count
	h.setStackInSlot(from, src, containers)
	h.setStackInSlot(to, dst, containers)
	return nil
}

func (h *itemStackTracker) verifySlots(containers *ContainerSet, slots ...protocol.StackRequestSlotInfo) error {
	for _, slot := range slots {
		if err := h.verifySlot(slot, containers); err != nil {
			return err
		}
	}
	return nil
}

// verifySlot checks that the client's claimed stack network ID for slot
// matches the server's authoritative view, reconciling stale unacknowledged
// changes first.
func (h *itemStackTracker) verifySlot(slot protocol.StackRequestSlotInfo, containers *ContainerSet) error {
	h.tryAcknowledgeChanges(slot)
	if len(h.responseChanges) > 256 {
		return fmt.Errorf("too many unacknowledged request slot changes")
	}

	i, err := h.stackInSlot(slot, containers)
	if err != nil {
		return err
	}
	clientID, err := h.resolveID(slot)
	if err != nil {
		return err
	}
	if i.NetworkID != clientID {
		return fmt.Errorf("stack ID mismatch: client expected %v, but server had %v", clientID, i.NetworkID)
	}
	return nil
}

// resolveID resolves a (possibly negative, meaning "from an earlier
// response in this same batch") stack network ID claimed by the client.
func (h *itemStackTracker) resolveID(slot protocol.StackRequestSlotInfo) (int32, error) {
	if slot.StackNetworkID >= 0 {
		return slot.StackNetworkID, nil
	}
	containerChanges, ok := h.responseChanges[slot.StackNetworkID]
	if !ok {
		return 0, fmt.Errorf("slot pointed to stack request %v, but request could not be found", slot.StackNetworkID)
	}
	changes, ok := containerChanges[slot.ContainerID]
	if !ok {
		return 0, fmt.Errorf("slot pointed to stack request %v with container %v, but that container was not changed", slot.StackNetworkID, slot.ContainerID)
	}
	actual, ok := changes[slot.Slot]
	if !ok {
		return 0, fmt.Errorf("slot pointed to stack request %v with container %v and slot %v, but that slot was not changed", slot.StackNetworkID, slot.ContainerID, slot.Slot)
	}
	return actual.id, nil
}

// tryAcknowledgeChanges drops response-change bookkeeping the client has
// already demonstrated it received (by referencing the right stack network
// ID), or that has simply aged out after five seconds.
func (h *itemStackTracker) tryAcknowledgeChanges(slot protocol.StackRequestSlotInfo) {
	for requestID, containerChanges := range h.responseChanges {
		for containerID, changes := range containerChanges {
			for slotIndex, val := range changes {
				if (slot.Slot == slotIndex && slot.StackNetworkID >= 0 && slot.ContainerID == containerID) || h.current.Sub(val.timestamp) > 5*time.Second {
					delete(changes, slotIndex)
				}
			}
			if len(changes) == 0 {
				delete(containerChanges, containerID)
			}
		}
		if len(containerChanges) == 0 {
			delete(h.responseChanges, requestID)
		}
	}
}

func (h *itemStackTracker) stackInSlot(slot protocol.StackRequestSlotInfo, containers *ContainerSet) (Stack, error) {
	inv, ok := containers.Get(slot.ContainerID)
	if !ok {
		return Stack{}, fmt.Errorf("unable to find container with ID %v", slot.ContainerID)
	}
	return inv.Slot(slot.Slot), nil
}

func (h *itemStackTracker) setStackInSlot(slot protocol.StackRequestSlotInfo, i Stack, containers *ContainerSet) {
	inv, ok := containers.Get(slot.ContainerID)
	if !ok {
		return
	}
	inv.SetSlot(slot.Slot, i)

	if h.changes[slot.ContainerID] == nil {
		h.changes[slot.ContainerID] = map[byte]protocol.StackResponseSlotInfo{}
	}
	respSlot := protocol.StackResponseSlotInfo{
		Slot:           slot.Slot,
		HotbarSlot:     slot.Slot,
		Count:          i.Count,
		StackNetworkID: i.NetworkID,
	}
	h.changes[slot.ContainerID][slot.Slot] = respSlot

	if h.responseChanges[h.currentRequest] == nil {
		h.responseChanges[h.currentRequest] = map[byte]map[byte]responseChange{}
	}
	if h.responseChanges[h.currentRequest][slot.ContainerID] == nil {
		h.responseChanges[h.currentRequest][slot.ContainerID] = map[byte]responseChange{}
	}
	h.responseChanges[h.currentRequest][slot.ContainerID][slot.Slot] = responseChange{
		id:        respSlot.StackNetworkID,
		timestamp: h.current,
	}
}

func (h *itemStackTracker) resolve(id int32, send func(packet.Packet)) {
	info := make([]protocol.StackResponseContainerInfo, 0, len(h.changes))
	for container, slotInfo := range h.changes {
		slots := make([]protocol.StackResponseSlotInfo, 0, len(slotInfo))
		for _, slot := range slotInfo {
			slots = append(slots, slot)
		}
		info = append(info, protocol.StackResponseContainerInfo{ContainerID: container, SlotInfo: slots})
	}
	send(&packet.ItemStackResponse{Responses: []protocol.ItemStackResponse{{
		Status:        protocol.ItemStackResponseStatusOK,
		RequestID:     id,
		ContainerInfo: info,
	}}})
	h.changes = map[byte]map[byte]protocol.StackResponseSlotInfo{}
}

func (h *itemStackTracker) reject(id int32, send func(packet.Packet)) {
	send(&packet.ItemStackResponse{Responses: []protocol.ItemStackResponse{{
		Status:    protocol.ItemStackResponseStatusError,
		RequestID: id,
	}}})
	h.changes = map[byte]map[byte]protocol.StackResponseSlotInfo{}
}
