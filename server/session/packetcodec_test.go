package session

import (
	"testing"

	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

func TestSplitLoginTokensRoundTrip(t *testing.T) {
	login := &packet.Login{ConnectionRequest: buildLoginConnectionRequest(t, []string{"a", "b"}, "client-jwt")}
	chain, clientJWT, err := splitLoginTokens(login)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(chain) != 2 || chain[0] != "a" || chain[1] != "b" {
		t.Fatalf("unexpected chain: %v", chain)
	}
	if clientJWT != "client-jwt" {
		t.Fatalf("expected client-jwt, got %q", clientJWT)
	}
}

func TestSplitLoginTokensRejectsTruncatedRequest(t *testing.T) {
	login := &packet.Login{ConnectionRequest: []byte{1, 2, 3}}
	if _, _, err := splitLoginTokens(login); err == nil {
		t.Fatal("expected error for truncated connection request")
	}
}

func TestMarshalUnmarshalPacketRoundTrip(t *testing.T) {
	body, err := marshalPacket(&packet.Text{TextType: packet.TextTypeChat, SourceName: "Steve", Message: "hi"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	pk, err := unmarshalPacket(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	text, ok := pk.(*packet.Text)
	if !ok {
		t.Fatalf("expected *packet.Text, got %T", pk)
	}
	if text.SourceName != "Steve" || text.Message != "hi" {
		t.Fatalf("unexpected round-trip: %+v", text)
	}
}
