package client

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gravitas-games/zombies/pkg/models"
)

var (
	// ErrTokenExpired is returned for a token whose exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrAccountInactive is returned for a token of a banned or unactivated user.
	ErrAccountInactive = errors.New("account not active")
)

// Claims represents the access token claims issued by the login server
type Claims struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Permissions int64  `json:"permissions"`
	Activated   int64  `json:"activated"`
	jwt.RegisteredClaims
}

// PlayerFromToken reads the identity carried by an access token. The
// signature is not checked here, the server does that on connect; this only
// refuses tokens that would be rejected anyway.
func PlayerFromToken(tokenString string, now time.Time) (*models.Player, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return nil, fmt.Errorf("%w at %s", ErrTokenExpired, claims.ExpiresAt.Format(time.RFC3339))
	}

	player := &models.Player{
		ID:          strconv.FormatInt(claims.UserID, 10),
		Username:    claims.Username,
		Email:       claims.Email,
		Permissions: claims.Permissions,
		Activated:   claims.Activated,
	}
	if claims.ExpiresAt != nil {
		player.ExpiresAt = claims.ExpiresAt.Time
	}

	if player.IsBanned() {
		return nil, fmt.Errorf("%w: user is banned", ErrAccountInactive)
	}
	if !player.IsActive() {
		return nil, fmt.Errorf("%w: user not activated", ErrAccountInactive)
	}
	return player, nil
}
