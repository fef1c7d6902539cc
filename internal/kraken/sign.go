package kraken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"net/url"
)

// Signer generates API-Sign headers for Kraken private endpoints.
//
// Signature scheme: HMAC-SHA512 of (URI path + SHA256(nonce + POST data))
// keyed with the base64-decoded API secret, base64-encoded.
type Signer struct {
	apiKey string
	secret []byte
}

// NewSigner creates a Signer from the API key and the base64-encoded
// secret shown in the Kraken dashboard.
func NewSigner(apiKey, apiSecret string) (*Signer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	secret, err := base64.StdEncoding.DecodeString(apiSecret)
	if err != nil {
		return nil, fmt.Errorf("decode API secret: %w", err)
	}
	return &Signer{apiKey: apiKey, secret: secret}, nil
}

// Sign computes the API-Sign value for a request. values must already
// contain the nonce field.
func (s *Signer) Sign(path string, values url.Values) (string, error) {
	nonce := values.Get("nonce")
	if nonce == "" {
		return "", fmt.Errorf("nonce is required")
	}

	sha := sha256.Sum256([]byte(nonce + values.Encode()))

	mac := hmac.New(sha512.New, s.secret)
	mac.Write([]byte(path))
	mac.Write(sha[:])

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Headers returns the authentication headers for a private request.
func (s *Signer) Headers(path string, values url.Values) (map[string]string, error) {
	sig, err := s.Sign(path, values)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"API-Key":  s.apiKey,
		"API-Sign": sig,
	}, nil
}
