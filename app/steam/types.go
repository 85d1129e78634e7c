package steam

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Counter is a single named cumulative statistic.
type Counter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Achievement is a player achievement entry.
type Achievement struct {
	APIName    string `json:"apiname,omitempty"`
	Name       string `json:"name,omitempty"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime,omitempty"`
}

// PlayerStats is the "playerstats" object of GetUserStatsForGame.
type PlayerStats struct {
	SteamID      string        `json:"steamID"`
	GameName     string        `json:"gameName"`
	Stats        []Counter     `json:"stats"`
	Achievements []Achievement `json:"achievements,omitempty"`
}

// AchievementsStatus tells how the achievements sub-fetch went.
type AchievementsStatus int

// Achievement fetch outcomes.
const (
	AchievementsUnavailable AchievementsStatus = iota // steam reported no achievements for the player
	AchievementsFetched
	AchievementsFailed // the request failed, the failure is tolerated
)

// String returns the status name.
func (s AchievementsStatus) String() string {
	switch s {
	case AchievementsFetched:
		return "fetched"
	case AchievementsFailed:
		return "failed"
	default:
		return "unavailable"
	}
}

// AchievementsResult is the outcome of the best-effort achievements fetch.
type AchievementsResult struct {
	Status       AchievementsStatus
	Achievements []Achievement
	Err          error
}

// CS2Stats merges the player's CS2 statistics with the achievements fetch.
type CS2Stats struct {
	PlayerStats
	AchievementsResult AchievementsResult
}

// MarshalJSON renders the stats object with "achievements" replaced by the
// result of the achievements fetch, null unless it was fetched.
func (s CS2Stats) MarshalJSON() ([]byte, error) {
	out := struct {
		SteamID      string        `json:"steamID"`
		GameName     string        `json:"gameName"`
		Stats        []Counter     `json:"stats"`
		Achievements []Achievement `json:"achievements"`
	}{
		SteamID:  s.SteamID,
		GameName: s.GameName,
		Stats:    s.Stats,
	}

	if s.AchievementsResult.Status == AchievementsFetched {
		out.Achievements = s.AchievementsResult.Achievements
		if out.Achievements == nil {
			out.Achievements = []Achievement{}
		}
	}

	return json.Marshal(out)
}

// PlayerSummary is a single player of GetPlayerSummaries.
type PlayerSummary struct {
	SteamID                  string `json:"steamid"`
	PersonaName              string `json:"personaname"`
	ProfileURL               string `json:"profileurl"`
	Avatar                   string `json:"avatar"`
	AvatarMedium             string `json:"avatarmedium"`
	AvatarFull               string `json:"avatarfull"`
	PersonaState             int    `json:"personastate"`
	CommunityVisibilityState int    `json:"communityvisibilitystate"`
	ProfileState             int    `json:"profilestate,omitempty"`
	LastLogoff               int64  `json:"lastlogoff,omitempty"`
	RealName                 string `json:"realname,omitempty"`
	TimeCreated              int64  `json:"timecreated,omitempty"`
	LocCountryCode           string `json:"loccountrycode,omitempty"`
	GameID                   string `json:"gameid,omitempty"`
	GameExtraInfo            string `json:"gameextrainfo,omitempty"`
}

// Game is an owned game entry, playtimes are in minutes.
type Game struct {
	AppID                    int    `json:"appid"`
	Name                     string `json:"name"`
	PlaytimeForever          int    `json:"playtime_forever"`
	Playtime2Weeks           int    `json:"playtime_2weeks,omitempty"`
	PlaytimeWindows          int    `json:"playtime_windows_forever,omitempty"`
	PlaytimeMac              int    `json:"playtime_mac_forever,omitempty"`
	PlaytimeLinux            int    `json:"playtime_linux_forever,omitempty"`
	PlaytimeDeck             int    `json:"playtime_deck_forever,omitempty"`
	ImgIconURL               string `json:"img_icon_url,omitempty"`
	HasCommunityVisibleStats bool   `json:"has_community_visible_stats,omitempty"`
	RTimeLastPlayed          int64  `json:"rtime_last_played,omitempty"`
}

// OwnedGames is the "response" object of GetOwnedGames.
type OwnedGames struct {
	GameCount int    `json:"game_count"`
	Games     []Game `json:"games"`
}

// GlobalAchievement is the share of players that unlocked an achievement.
type GlobalAchievement struct {
	Name    string  `json:"name"`
	Percent Percent `json:"percent"`
}

// Percent accepts both a JSON number and a numeric string.
type Percent float64

// UnmarshalJSON decodes the percent value.
func (p *Percent) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse percent %q: %w", s, err)
	}
	*p = Percent(v)
	return nil
}
