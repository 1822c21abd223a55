package session

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
)

// IdentityData is extracted from the terminal (client-facing) identity JWT
// in the login chain.
type IdentityData struct {
	DisplayName string
	UUID        uuid.UUID
	XUID        string
	PublicKey   []byte // DER, P-384
	Authority   AuthorityLevel
}

// AuthorityLevel records how far the chain's trust could be anchored.
type AuthorityLevel int

const (
	// AuthorityOnline means the chain verified up to the identity oracle's
	// trusted root.
	AuthorityOnline AuthorityLevel = iota
	// AuthorityOffline means the chain is self-signed and was accepted
	// only because legacy-auth is permitted; the identity is not
	// authoritative.
	AuthorityOffline
)

type chainLink struct {
	Payload struct {
		IdentityPublicKey string `json:"identityPublicKey"`
		ExtraData         *struct {
			DisplayName string `json:"displayName"`
			Identity    string `json:"identity"`
			XUID        string `json:"XUID"`
		} `json:"extraData,omitempty"`
	}
	token *jwt.JSONWebToken
}

// AuthPolicy controls how the login chain is validated.
type AuthPolicy struct {
	Oracle      IdentityOracle
	LegacyAllow bool
}

// ValidateLoginChain walks the identity JWT chain (each link's public key
// verifying the next), then validates the client JWT's signature against
// the terminal identity's public key.
//
// The chain is anchored either at the oracle's trusted root (online) or,
// when LegacyAllow is set, at the chain's own first link: link[0] must
// verify against its own declared identity key and every later link must
// verify against the previous link's declared key, the same walk as the
// online path just anchored at the chain itself instead of the oracle.
// A chain that satisfies neither anchor is rejected outright; LegacyAllow
// never accepts an unverified claim.
func (p AuthPolicy) ValidateLoginChain(chain []string, clientJWT string) (IdentityData, error) {
	if len(chain) == 0 {
		return IdentityData{}, fmt.Errorf("session: empty identity chain: %w", ErrAuthMalformed)
	}

	links := make([]*chainLink, len(chain))
	for i, raw := range chain {
		tok, err := jwt.ParseSigned(raw, []jwt.SignatureAlgorithm{jwt.ES384})
		if err != nil {
			return IdentityData{}, fmt.Errorf("session: parse chain link %d: %w: %w", i, ErrAuthMalformed, err)
		}
		link := &chainLink{token: tok}
		if err := json.Unmarshal(tok.UnsafePayloadWithoutVerification(), &link.Payload); err != nil {
			return IdentityData{}, fmt.Errorf("session: decode chain link %d: %w: %w", i, ErrAuthMalformed, err)
		}
		links[i] = link
	}

	online := p.verifyOnline(links)
	if !online {
		if !verifySelfSigned(links) {
			return IdentityData{}, fmt.Errorf("session: chain verifies against neither the trusted root nor itself: %w", ErrAuthRejected)
		}
		if !p.LegacyAllow {
			return IdentityData{}, fmt.Errorf("session: self-signed chain with legacy auth disabled: %w", ErrAuthOfflineBlocked)
		}
	}

	terminal := links[len(links)-1]
	if terminal.Payload.ExtraData == nil {
		return IdentityData{}, fmt.Errorf("session: terminal chain link missing identity claims: %w", ErrAuthMalformed)
	}
	identityKeyDER, err := decodeSPKIKey(terminal.Payload.IdentityPublicKey)
	if err != nil {
		return IdentityData{}, fmt.Errorf("session: terminal identity key: %w: %w", ErrAuthMalformed, err)
	}

	pub, err := parseECDSAPublicKey(identityKeyDER)
	if err != nil {
		return IdentityData{}, fmt.Errorf("session: terminal identity key: %w: %w", ErrAuthRejected, err)
	}
	clientTok, err := jwt.ParseSigned(clientJWT, []jwt.SignatureAlgorithm{jwt.ES384})
	if err != nil {
		return IdentityData{}, fmt.Errorf("session: parse client jwt: %w: %w", ErrAuthMalformed, err)
	}
	var empty struct{}
	if err := clientTok.Claims(pub, &empty); err != nil {
		return IdentityData{}, fmt.Errorf("session: client jwt signature: %w: %w", ErrAuthRejected, err)
	}

	id, err := uuid.Parse(terminal.Payload.ExtraData.Identity)
	if err != nil {
		return IdentityData{}, fmt.Errorf("session: terminal identity uuid: %w: %w", ErrAuthMalformed, err)
	}

	authority := AuthorityOnline
	if !online {
		authority = AuthorityOffline
	}
	return IdentityData{
		DisplayName: terminal.Payload.ExtraData.DisplayName,
		UUID:        id,
		XUID:        terminal.Payload.ExtraData.XUID,
		PublicKey:   identityKeyDER,
		Authority:   authority,
	}, nil
}

// verifyOnline walks the chain verifying link[i]'s signature against the
// public key embedded in link[i-1], with the first link's signature
// checked against the oracle's trusted root. Returns false (without
// error) the moment verification can't reach the root, so the caller can
// fall back to the legacy-auth policy decision.
func (p AuthPolicy) verifyOnline(links []*chainLink) bool {
	rootDER := p.Oracle.TrustedRoot()
	signerKeyDER := rootDER

	for _, link := range links {
		pub, err := parseECDSAPublicKey(signerKeyDER)
		if err != nil {
			return false
		}
		var empty struct{}
		if err := link.token.Claims(pub, &empty); err != nil {
			return false
		}
		nextKeyDER, err := decodeSPKIKey(link.Payload.IdentityPublicKey)
		if err != nil {
			return false
		}
		signerKeyDER = nextKeyDER
	}
	return true
}

// verifySelfSigned walks a chain that failed to anchor at the oracle's
// trusted root, checking that it is nonetheless internally consistent:
// link[0]'s signature must verify against its own declared identity key,
// and every later link must verify against the previous link's declared
// key. This is the self-signed case LegacyAllow permits; it never
// accepts a chain whose links don't actually sign one another.
func verifySelfSigned(links []*chainLink) bool {
	signerKeyDER, err := decodeSPKIKey(links[0].Payload.IdentityPublicKey)
	if err != nil {
		return false
	}
	for _, link := range links {
		pub, err := parseECDSAPublicKey(signerKeyDER)
		if err != nil {
			return false
		}
		var empty struct{}
		if err := link.token.Claims(pub, &empty); err != nil {
			return false
		}
		nextKeyDER, err := decodeSPKIKey(link.Payload.IdentityPublicKey)
		if err != nil {
			return false
		}
		signerKeyDER = nextKeyDER
	}
	return true
}

func decodeSPKIKey(b64 string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(b64)
}

func parseECDSAPublicKey(der []byte) (*ecdsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("session: identity key is not ECDSA")
	}
	return key, nil
}
