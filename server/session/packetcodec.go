package session

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

var packetPool = packet.NewPool()

// marshalPacket writes pk's header and body into a message body suitable
// for batch.Encode: varint(packet_id) followed by the packet's own body.
func marshalPacket(pk packet.Packet) ([]byte, error) {
	var buf bytes.Buffer
	hdr := packet.Header{PacketID: pk.ID()}
	if err := hdr.Write(&buf); err != nil {
		return nil, fmt.Errorf("session: write packet header: %w", err)
	}
	pk.Marshal(protocol.NewWriter(&buf, 0))
	return buf.Bytes(), nil
}

// unmarshalPacket reads a header off body and dispatches to the matching
// packet type from the gophertunnel pool.
func unmarshalPacket(body []byte) (packet.Packet, error) {
	buf := bytes.NewBuffer(body)
	hdr := &packet.Header{}
	if err := hdr.Read(buf); err != nil {
		return nil, fmt.Errorf("session: read packet header: %w", err)
	}
	factory, ok := packetPool[hdr.PacketID]
	if !ok {
		return nil, fmt.Errorf("session: unknown packet id %d", hdr.PacketID)
	}
	pk := factory()
	pk.Unmarshal(protocol.NewReader(buf, 0, false))
	return pk, nil
}

// loginChain is the JSON shape of the chain-data half of a Login packet's
// ConnectionRequest payload.
type loginChain struct {
	Chain []string `json:"chain"`
}

// splitLoginTokens decodes a Login packet's ConnectionRequest: a
// little-endian uint32 length, then the chain-data JSON, then a second
// little-endian uint32 length, then the raw client-data JWT string.
func splitLoginTokens(login *packet.Login) (chain []string, clientJWT string, err error) {
	r := bytes.NewReader(login.ConnectionRequest)

	var chainLen uint32
	if err := binary.Read(r, binary.LittleEndian, &chainLen); err != nil {
		return nil, "", fmt.Errorf("session: read chain length: %w", err)
	}
	chainData := make([]byte, chainLen)
	if _, err := r.Read(chainData); err != nil {
		return nil, "", fmt.Errorf("session: read chain data: %w", err)
	}
	var parsed loginChain
	if err := json.Unmarshal(chainData, &parsed); err != nil {
		return nil, "", fmt.Errorf("session: unmarshal chain data: %w", err)
	}

	var clientLen uint32
	if err := binary.Read(r, binary.LittleEndian, &clientLen); err != nil {
		return nil, "", fmt.Errorf("session: read client data length: %w", err)
	}
	clientData := make([]byte, clientLen)
	if _, err := r.Read(clientData); err != nil {
		return nil, "", fmt.Errorf("session: read client data: %w", err)
	}

	return parsed.Chain, string(clientData), nil
}
