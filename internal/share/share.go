// Package share issues and checks signed read-only links to a board export.
package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidShareToken = errors.New("invalid or expired share token")

// Signer signs share tokens with HS256.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a signer whose tokens expire after ttl.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token for boardID and the moment it stops working.
func (s *Signer) Issue(boardID string) (string, time.Time, error) {
	if boardID == "" {
		return "", time.Time{}, errors.New("board id required")
	}
	exp := s.now().Add(s.ttl)
	claims := jwt.MapClaims{"board_id": boardID, "exp": jwt.NewNumericDate(exp).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign share token: %w", err)
	}
	return signed, exp, nil
}

// Verify returns the board a token was issued for.
func (s *Signer) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidShareToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return "", ErrInvalidShareToken
	}
	boardID, _ := claims["board_id"].(string)
	if boardID == "" {
		return "", ErrInvalidShareToken
	}
	return boardID, nil
}
