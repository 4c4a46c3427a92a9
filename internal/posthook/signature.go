package posthook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader carries the hex-encoded HMAC the provider computes over the
// callback body.
const SignatureHeader = "X-Ph-Signature"

var ErrBadSignature = errors.New("posthook: signature mismatch")

// Verifier authenticates callback requests with the shared secret agreed with
// the provider.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes HMAC-SHA256 over the exact raw body bytes as received on
// the wire and compares in constant time. The body must not be re-serialized
// before verification; key order and whitespace would change the digest.
func (v *Verifier) Verify(body []byte, signature string) error {
	sig, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(sig) == 0 {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return ErrBadSignature
	}
	return nil
}

// Sign produces the signature the provider would send for body. Used by tests
// and local tooling.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
