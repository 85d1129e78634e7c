package steam

import (
	"context"
	"strings"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

// IsSteamID64 checks whether s looks like a SteamID64: 17 decimal digits.
func IsSteamID64(s string) bool {
	if len(s) != 17 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateSteamID checks the steamId parameter of an operation.
func ValidateSteamID(id string) error {
	if id == "" {
		return Invalid("steamId required")
	}
	if !IsSteamID64(id) {
		return Invalid("steamId must be a 17-digit SteamID64, got %q", id)
	}
	if sid := steamid.New(id); !sid.Valid() {
		return Invalid("steamId must be a 17-digit SteamID64, got %q", id)
	}
	return nil
}

// ResolveIdentifier turns a SteamID64 or a vanity name into a SteamID64.
// A SteamID64 is returned as is, without a request.
func (c *Client) ResolveIdentifier(ctx context.Context, ident string) (string, error) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return "", Invalid("steam id or vanity name required")
	}

	if IsSteamID64(ident) {
		if err := ValidateSteamID(ident); err != nil {
			return "", err
		}
		return ident, nil
	}

	return c.ResolveVanity(ctx, ident)
}
