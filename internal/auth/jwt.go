// Package auth issues and verifies the player tokens handed out when a seat
// in a game is claimed. A token binds one player id to one game id; action
// and websocket calls present it instead of re-authenticating.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenLifetime caps how long a seat token stays valid. Games are expected
// to finish well within it.
const TokenLifetime = 24 * time.Hour

// Claims is the JWT payload for a seat token.
type Claims struct {
	GameID   uuid.UUID `json:"gameId"`
	PlayerID uuid.UUID `json:"playerId"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies seat tokens with an HS256 secret.
type Issuer struct {
	secret []byte
}

// NewIssuer builds an issuer. The secret must be non-empty.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("auth: empty jwt secret")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// IssueToken mints a token for the player's seat in the game.
func (i *Issuer) IssueToken(gameID, playerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		GameID:   gameID,
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a seat token, returning its claims.
func (i *Issuer) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("auth: invalid token")
	}
	if claims.GameID == uuid.Nil || claims.PlayerID == uuid.Nil {
		return nil, errors.New("auth: token missing game or player id")
	}
	return claims, nil
}
