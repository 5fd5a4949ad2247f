package kling

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
)

const (
	tokenTTLSeconds       = 300
	tokenNotBeforeSkewSec = 60
)

type tokenClaims struct {
	Iss string `json:"iss"`
	Exp int64  `json:"exp"`
	Nbf int64  `json:"nbf"`
}

// IssueToken mints a short-lived HS256 bearer token for the provider's
// signed-request scheme. The not-before claim is backdated to tolerate
// clock skew between this host and the provider.
func (c *Client) IssueToken() (string, error) {
	if c.accessKey == "" || c.secretKey == "" {
		return "", ErrMissingCredentials
	}
	now := c.now().Unix()
	claims := tokenClaims{
		Iss: c.accessKey,
		Exp: now + tokenTTLSeconds,
		Nbf: now - tokenNotBeforeSkewSec,
	}
	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, _ := json.Marshal(header)
	claimsJSON, _ := json.Marshal(claims)
	data := base64.RawURLEncoding.EncodeToString(headerJSON) + "." + base64.RawURLEncoding.EncodeToString(claimsJSON)
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(data))
	return data + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
