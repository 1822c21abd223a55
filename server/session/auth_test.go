package session

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"testing"

	josejwt "github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
)

type fixedOracle struct {
	root []byte
}

func (f fixedOracle) TrustedRoot() []byte { return f.root }

func genKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func spki(t *testing.T, pub *ecdsa.PublicKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(der)
}

type chainPayload struct {
	IdentityPublicKey    string `json:"identityPublicKey"`
	CertificateAuthority bool   `json:"certificateAuthority,omitempty"`
	ExtraData            *struct {
		DisplayName string `json:"displayName"`
		Identity    string `json:"identity"`
		XUID        string `json:"XUID"`
	} `json:"extraData,omitempty"`
}

func sign(t *testing.T, signer *ecdsa.PrivateKey, payload chainPayload) string {
	t.Helper()
	s, err := josejwt.NewSigner(josejwt.SigningKey{Algorithm: josejwt.ES384, Key: signer}, nil)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	tok, err := jwt.Signed(s).Claims(payload).Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return tok
}

// buildOnlineChain builds a single-link chain rooted at root's public key:
// root signs the terminal identity carrying the player's display/XUID
// claims, and the terminal identity key signs the client JWT.
func buildOnlineChain(t *testing.T) (chain []string, clientJWT string, root *ecdsa.PrivateKey, playerUUID uuid.UUID) {
	t.Helper()
	root = genKey(t)
	terminal := genKey(t)
	playerUUID = uuid.New()

	link := sign(t, root, chainPayload{
		IdentityPublicKey: spki(t, &terminal.PublicKey),
		ExtraData: &struct {
			DisplayName string `json:"displayName"`
			Identity    string `json:"identity"`
			XUID        string `json:"XUID"`
		}{DisplayName: "Steve", Identity: playerUUID.String(), XUID: "1234567890"},
	})

	client := genKey(t)
	clientJWT = sign(t, terminal, chainPayload{IdentityPublicKey: spki(t, &client.PublicKey)})

	return []string{link}, clientJWT, root, playerUUID
}

// buildSelfSignedChain builds a single-link chain whose link is signed by
// the same key it declares as its own identity key: a genuinely
// self-signed identity, the only shape LegacyAllow is meant to accept.
func buildSelfSignedChain(t *testing.T) (chain []string, clientJWT string, playerUUID uuid.UUID) {
	t.Helper()
	self := genKey(t)
	playerUUID = uuid.New()

	link := sign(t, self, chainPayload{
		IdentityPublicKey: spki(t, &self.PublicKey),
		ExtraData: &struct {
			DisplayName string `json:"displayName"`
			Identity    string `json:"identity"`
			XUID        string `json:"XUID"`
		}{DisplayName: "Steve", Identity: playerUUID.String(), XUID: "1234567890"},
	})

	client := genKey(t)
	clientJWT = sign(t, self, chainPayload{IdentityPublicKey: spki(t, &client.PublicKey)})

	return []string{link}, clientJWT, playerUUID
}

func TestValidateLoginChainOnline(t *testing.T) {
	chain, clientJWT, root, playerUUID := buildOnlineChain(t)
	rootDER, _ := x509.MarshalPKIXPublicKey(&root.PublicKey)

	policy := AuthPolicy{Oracle: fixedOracle{root: rootDER}}
	id, err := policy.ValidateLoginChain(chain, clientJWT)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id.Authority != AuthorityOnline {
		t.Fatalf("expected online authority, got %v", id.Authority)
	}
	if id.DisplayName != "Steve" {
		t.Fatalf("expected display name Steve, got %q", id.DisplayName)
	}
	if id.UUID != playerUUID {
		t.Fatalf("expected uuid %v, got %v", playerUUID, id.UUID)
	}
	if id.XUID != "1234567890" {
		t.Fatalf("expected xuid 1234567890, got %q", id.XUID)
	}
}

func TestValidateLoginChainRejectsWrongRoot(t *testing.T) {
	chain, clientJWT, _, _ := buildOnlineChain(t)
	otherRoot := genKey(t)
	otherRootDER, _ := x509.MarshalPKIXPublicKey(&otherRoot.PublicKey)

	policy := AuthPolicy{Oracle: fixedOracle{root: otherRootDER}}
	if _, err := policy.ValidateLoginChain(chain, clientJWT); err == nil {
		t.Fatal("expected error when chain does not verify against the trusted root")
	}
}

func TestValidateLoginChainLegacyFallback(t *testing.T) {
	chain, clientJWT, playerUUID := buildSelfSignedChain(t)
	otherRoot := genKey(t)
	otherRootDER, _ := x509.MarshalPKIXPublicKey(&otherRoot.PublicKey)

	policy := AuthPolicy{Oracle: fixedOracle{root: otherRootDER}, LegacyAllow: true}
	id, err := policy.ValidateLoginChain(chain, clientJWT)
	if err != nil {
		t.Fatalf("validate with legacy allowed: %v", err)
	}
	if id.Authority != AuthorityOffline {
		t.Fatalf("expected offline authority, got %v", id.Authority)
	}
	if id.UUID != playerUUID {
		t.Fatalf("expected uuid %v, got %v", playerUUID, id.UUID)
	}
}

// TestValidateLoginChainRejectsInconsistentLegacyChain proves LegacyAllow
// does not accept an arbitrary unverified claim: a chain that doesn't
// verify against the oracle's root AND whose link isn't signed by the key
// it declares as its own must still be rejected.
func TestValidateLoginChainRejectsInconsistentLegacyChain(t *testing.T) {
	chain, clientJWT, _, _ := buildOnlineChain(t)
	otherRoot := genKey(t)
	otherRootDER, _ := x509.MarshalPKIXPublicKey(&otherRoot.PublicKey)

	policy := AuthPolicy{Oracle: fixedOracle{root: otherRootDER}, LegacyAllow: true}
	if _, err := policy.ValidateLoginChain(chain, clientJWT); err == nil {
		t.Fatal("expected error: chain is neither anchored at the oracle's root nor self-signed")
	}
}

func TestValidateLoginChainRejectsEmptyChain(t *testing.T) {
	policy := AuthPolicy{Oracle: fixedOracle{}}
	if _, err := policy.ValidateLoginChain(nil, ""); err == nil {
		t.Fatal("expected error for empty chain")
	}
}

func TestValidateLoginChainRejectsTamperedClientJWT(t *testing.T) {
	chain, _, root, _ := buildOnlineChain(t)
	rootDER, _ := x509.MarshalPKIXPublicKey(&root.PublicKey)

	forged := genKey(t)
	forgedClientJWT := sign(t, forged, chainPayload{IdentityPublicKey: spki(t, &forged.PublicKey)})

	policy := AuthPolicy{Oracle: fixedOracle{root: rootDER}}
	if _, err := policy.ValidateLoginChain(chain, forgedClientJWT); err == nil {
		t.Fatal("expected error when client jwt is not signed by the terminal identity key")
	}
}
