package subject

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidToken = errors.New("invalid subject token")

// Parser validates collaborator-issued bearer tokens and extracts the opaque
// subject identifier they carry. Token issuance happens elsewhere; this side
// only consumes tokens signed with the shared secret.
type Parser struct {
	secret []byte
	ttl    time.Duration
}

// Options tunes token validation.
type Options struct {
	TTL time.Duration
}

// NewParser builds Parser with the shared secret and options.
func NewParser(secret string, opts Options) *Parser {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Parser{secret: []byte(secret), ttl: ttl}
}

// Issue generates a signed token for the subject. Used by tests and local
// tooling; production tokens come from the identity collaborator.
func (p *Parser) Issue(subject string) (string, error) {
	if subject == "" || strings.Contains(subject, ":") {
		return "", ErrInvalidToken
	}
	expires := time.Now().Add(p.ttl).Unix()
	payload := fmt.Sprintf("%s:%d", subject, expires)
	token := fmt.Sprintf("%s:%s", payload, p.sign(payload))
	return base64.StdEncoding.EncodeToString([]byte(token)), nil
}

// Parse validates the token and returns the embedded subject identifier.
func (p *Parser) Parse(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", ErrInvalidToken
	}

	payload := strings.Join(parts[:2], ":")
	if !hmac.Equal([]byte(p.sign(payload)), []byte(parts[2])) {
		return "", ErrInvalidToken
	}

	if parts[0] == "" {
		return "", ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if time.Unix(expires, 0).Before(time.Now()) {
		return "", ErrInvalidToken
	}

	return parts[0], nil
}

func (p *Parser) sign(payload string) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
