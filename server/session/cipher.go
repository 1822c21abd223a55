package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	josejwt "github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

// HandshakeKeyPair is the server's ephemeral P-384 keypair generated at
// the start of the encryption handshake. The same key
// signs the handshake JWT and performs the ECDH exchange, matching
// Bedrock's single-keypair convention.
type HandshakeKeyPair struct {
	private *ecdsa.PrivateKey
}

// NewHandshakeKeyPair generates a fresh P-384 keypair.
func NewHandshakeKeyPair() (*HandshakeKeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("session: generate handshake keypair: %w", err)
	}
	return &HandshakeKeyPair{private: priv}, nil
}

// PublicKeyDER returns the server's public key in DER form, the format
// embedded in the handshake JWT's x5u header.
func (k *HandshakeKeyPair) PublicKeyDER() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&k.private.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("session: marshal handshake public key: %w", err)
	}
	return der, nil
}

// SigningKey exposes the underlying ECDSA key for JWT signing.
func (k *HandshakeKeyPair) SigningKey() *ecdsa.PrivateKey { return k.private }

// SessionCipher is the AES-256-GCM AEAD state for one direction's worth of
// frames. Send and recv share the same key and IV base;
// independence comes entirely from each having its own counter, so one
// SessionCipher is constructed per direction sharing the derived key/base.
type SessionCipher struct {
	aead    cipher.AEAD
	ivBase  [12]byte
	counter uint64
}

// DeriveSessionKey computes the 32-byte symmetric key and 12-byte IV base
// from the server's private key, the client's P-384 public key (DER), and
// the 16-byte server-generated salt: ECDH shared secret, concatenate
// salt||secret, SHA-256. Fails with ErrHandshakeCrypto on a malformed
// client key.
func DeriveSessionKey(server *HandshakeKeyPair, clientPublicDER, salt []byte) (key [32]byte, ivBase [12]byte, err error) {
	pub, parseErr := x509.ParsePKIXPublicKey(clientPublicDER)
	if parseErr != nil {
		return key, ivBase, fmt.Errorf("session: parse client public key: %w: %w", ErrHandshakeCrypto, parseErr)
	}
	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok || ecdsaPub.Curve != elliptic.P384() {
		return key, ivBase, fmt.Errorf("session: client public key is not P-384: %w", ErrHandshakeCrypto)
	}
	clientECDH, err := ecdsaPub.ECDH()
	if err != nil {
		return key, ivBase, fmt.Errorf("session: client public key: %w: %w", ErrHandshakeCrypto, err)
	}
	serverECDH, err := server.private.ECDH()
	if err != nil {
		return key, ivBase, fmt.Errorf("session: server private key: %w: %w", ErrHandshakeCrypto, err)
	}

	secret, ecdhErr := serverECDH.ECDH(clientECDH)
	if ecdhErr != nil {
		return key, ivBase, fmt.Errorf("session: ECDH: %w: %w", ErrHandshakeCrypto, ecdhErr)
	}

	mixed := make([]byte, 0, len(salt)+len(secret))
	mixed = append(mixed, salt...)
	mixed = append(mixed, secret...)
	key = sha256.Sum256(mixed)
	copy(ivBase[:], key[:12])
	return key, ivBase, nil
}

// NewSessionCipher builds the AES-256-GCM AEAD over key, sharing ivBase
// with the opposite direction's cipher; each direction keeps its own
// counter.
func NewSessionCipher(key [32]byte, ivBase [12]byte) (*SessionCipher, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("session: new AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("session: new GCM: %w", err)
	}
	return &SessionCipher{aead: aead, ivBase: ivBase}, nil
}

// nonce returns the per-frame nonce for the current counter value: the
// first 4 bytes of ivBase untouched, the low 8 bytes replaced by the
// little-endian counter.
func (c *SessionCipher) nonce() [12]byte {
	var n [12]byte
	copy(n[:4], c.ivBase[:4])
	ctr := c.counter
	for i := 0; i < 8; i++ {
		n[4+i] = byte(ctr)
		ctr >>= 8
	}
	return n
}

// Encrypt seals plaintext (the batch frame, marker included) in place,
// appending the 16-byte GCM tag, and advances the send counter.
func (c *SessionCipher) Encrypt(plaintext []byte) []byte {
	n := c.nonce()
	c.counter++
	return c.aead.Seal(plaintext[:0], n[:], plaintext, nil)
}

// Decrypt opens ciphertext (frame plus trailing 16-byte tag) and advances
// the recv counter. Fails with ErrAeadReject on tag mismatch; the caller
// must terminate the session on this error and never attempt another
// Decrypt call on it.
func (c *SessionCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	n := c.nonce()
	c.counter++
	plain, err := c.aead.Open(ciphertext[:0], n[:], ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("session: %w", ErrAeadReject)
	}
	return plain, nil
}

// handshakeClaims is the payload of the server-to-client handshake JWT:
// just the salt, base64 encoded.
type handshakeClaims struct {
	Salt string `json:"salt"`
}

// SignHandshakeToken builds the ES384 JWT the server sends to announce
// encryption: header x5u carries the server's DER public key, payload
// carries the salt.
func SignHandshakeToken(serverECDSAKey *ecdsa.PrivateKey, publicKeyDER, salt []byte) (string, error) {
	signer, err := josejwt.NewSigner(josejwt.SigningKey{
		Algorithm: josejwt.ES384,
		Key:       serverECDSAKey,
	}, (&josejwt.SignerOptions{}).WithHeader("x5u", base64.StdEncoding.EncodeToString(publicKeyDER)))
	if err != nil {
		return "", fmt.Errorf("session: build handshake signer: %w", err)
	}
	tok, err := jwt.Signed(signer).Claims(handshakeClaims{Salt: base64.StdEncoding.EncodeToString(salt)}).Serialize()
	if err != nil {
		return "", fmt.Errorf("session: sign handshake token: %w", err)
	}
	return tok, nil
}
