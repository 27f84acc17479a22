package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptyOwnerID is returned by [Token.GetOwnerID] when the token carries
// no subject.
var ErrEmptyOwnerID = errors.New("empty owner id in token subject")

// Token wraps a JWT token with convenience accessors for authentication flows.
//
// SignedString holds the compact serialized form of the token; OwnerID is
// the parsed "sub" claim, which identifies the principal that owns every
// record the request may read or write.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	SignedString string `json:"-"`

	OwnerID string `json:"-"`
}

// GetOwnerID extracts the owner identifier from the token's "sub" claim.
func (t *Token) GetOwnerID() (string, error) {
	subject, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting owner id from token: %w", err)
	}
	if subject == "" {
		return "", ErrEmptyOwnerID
	}

	return subject, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
