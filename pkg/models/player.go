package models

import "time"

// Player is the local user, as described by the access token the client
// presents to the server.
type Player struct {
	// From JWT claims
	ID          string `json:"id"`          // Converted from int64 user_id
	Username    string `json:"username"`    // JWT claim
	Email       string `json:"email"`       // JWT claim
	Permissions int64  `json:"permissions"` // JWT claim: bitwise permission flags
	Activated   int64  `json:"activated"`   // JWT claim: activation timestamp or ban status

	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Anonymous is used when no token is configured.
func Anonymous() *Player {
	return &Player{ID: "0", Username: "guest", Activated: 1}
}

// IsActive checks if the player account is activated and not banned
func (p *Player) IsActive() bool {
	// activated > 0 means activated
	// activated == 0 means not activated
	// activated == -1 means banned
	return p.Activated > 0
}

// IsBanned checks if the player is banned
func (p *Player) IsBanned() bool {
	return p.Activated == -1
}

// DisplayName is the username, or the ID when the token carries none.
func (p *Player) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	return "player " + p.ID
}
