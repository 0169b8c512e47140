package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer computes and checks payment callback signatures. The provider signs
// the string "<intentRef>|<paymentRef>" with a shared secret; we recompute the
// HMAC-SHA256 hex digest and compare in constant time.
type Signer struct {
	secret []byte
}

// NewSigner builds Signer over the shared provider secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex HMAC-SHA256 digest for the intent/payment pair.
func (s *Signer) Sign(intentRef, paymentRef string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(intentRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether claimed matches the expected signature. The
// comparison is constant time; length and content mismatches are
// indistinguishable to the caller.
func (s *Signer) Verify(intentRef, paymentRef, claimed string) bool {
	expected := s.Sign(intentRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(claimed))
}
