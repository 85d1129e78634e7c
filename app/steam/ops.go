package steam

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultNewsCount is the number of news items requested when none is given.
const DefaultNewsCount = 3

const (
	pathResolveVanity      = "/ISteamUser/ResolveVanityURL/v0001/"
	pathPlayerSummaries    = "/ISteamUser/GetPlayerSummaries/v0002/"
	pathOwnedGames         = "/IPlayerService/GetOwnedGames/v0001/"
	pathUserStats          = "/ISteamUserStats/GetUserStatsForGame/v0002/"
	pathPlayerAchievements = "/ISteamUserStats/GetPlayerAchievements/v0001/"
	pathGlobalAchievements = "/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v0002/"
	pathNews               = "/ISteamNews/GetNewsForApp/v2/"
)

// ResolveVanity resolves a vanity name into a SteamID64.
func (c *Client) ResolveVanity(ctx context.Context, vanity string) (string, error) {
	vanity = strings.TrimSpace(vanity)
	if vanity == "" {
		return "", Invalid("vanity required, please enter your steam id")
	}
	if err := c.checkConfigured(); err != nil {
		return "", err
	}

	var resp struct {
		Response struct {
			SteamID string `json:"steamid"`
			Success int    `json:"success"`
			Message string `json:"message"`
		} `json:"response"`
	}

	if err := c.get(ctx, pathResolveVanity, url.Values{"vanityurl": {vanity}}, &resp); err != nil {
		return "", err
	}

	if resp.Response.Success != 1 {
		log.Printf("[DEBUG] vanity %q not resolved, success=%d: %s",
			vanity, resp.Response.Success, resp.Response.Message)
		return "", notFound("could not resolve vanity " + strconv.Quote(vanity))
	}

	return resp.Response.SteamID, nil
}

// PlayerSummary returns the public profile of the player.
func (c *Client) PlayerSummary(ctx context.Context, steamID string) (PlayerSummary, error) {
	if err := ValidateSteamID(steamID); err != nil {
		return PlayerSummary{}, err
	}
	if err := c.checkConfigured(); err != nil {
		return PlayerSummary{}, err
	}

	var resp struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}

	if err := c.get(ctx, pathPlayerSummaries, url.Values{"steamids": {steamID}}, &resp); err != nil {
		return PlayerSummary{}, err
	}

	if len(resp.Response.Players) == 0 {
		return PlayerSummary{}, notFound("player not found")
	}

	return resp.Response.Players[0], nil
}

// OwnedGames returns the games owned by the player, including free games
// that were played. Private libraries come back empty.
func (c *Client) OwnedGames(ctx context.Context, steamID string) (OwnedGames, error) {
	if err := ValidateSteamID(steamID); err != nil {
		return OwnedGames{}, err
	}
	if err := c.checkConfigured(); err != nil {
		return OwnedGames{}, err
	}

	var resp struct {
		Response OwnedGames `json:"response"`
	}

	params := url.Values{
		"steamid":                   {steamID},
		"include_appinfo":           {"1"},
		"include_played_free_games": {"1"},
		"format":                    {"json"},
	}
	if err := c.get(ctx, pathOwnedGames, params, &resp); err != nil {
		return OwnedGames{}, err
	}

	return resp.Response, nil
}

// CS2Stats returns the player's CS2 statistics merged with the player's
// achievements. The achievements are fetched along with the statistics,
// their failure doesn't fail the operation.
func (c *Client) CS2Stats(ctx context.Context, steamID string) (CS2Stats, error) {
	if err := ValidateSteamID(steamID); err != nil {
		return CS2Stats{}, err
	}
	if err := c.checkConfigured(); err != nil {
		return CS2Stats{}, err
	}

	var (
		resp struct {
			PlayerStats *PlayerStats `json:"playerstats"`
		}
		ach AchievementsResult
	)

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		params := url.Values{"appid": {strconv.Itoa(CS2AppID)}, "steamid": {steamID}}
		return c.get(ctx, pathUserStats, params, &resp)
	})
	ewg.Go(func() error {
		ach = c.achievements(ctx, steamID)
		return nil
	})

	if err := ewg.Wait(); err != nil {
		return CS2Stats{}, err
	}

	if resp.PlayerStats == nil || resp.PlayerStats.Stats == nil {
		return CS2Stats{}, notFound("CS2 stats not available, game details may be private")
	}

	return CS2Stats{PlayerStats: *resp.PlayerStats, AchievementsResult: ach}, nil
}

// achievements fetches the CS2 achievements of the player, never fails.
func (c *Client) achievements(ctx context.Context, steamID string) AchievementsResult {
	var resp struct {
		PlayerStats struct {
			Achievements []Achievement `json:"achievements"`
			Success      *bool         `json:"success"`
			Error        string        `json:"error"`
		} `json:"playerstats"`
	}

	params := url.Values{"appid": {strconv.Itoa(CS2AppID)}, "steamid": {steamID}}
	if err := c.get(ctx, pathPlayerAchievements, params, &resp); err != nil {
		log.Printf("[INFO] achievements not available for %s: %v", steamID, err)
		return AchievementsResult{Status: AchievementsFailed, Err: err}
	}

	ps := resp.PlayerStats
	if (ps.Success != nil && !*ps.Success) || ps.Achievements == nil {
		log.Printf("[DEBUG] no achievements for %s: %s", steamID, ps.Error)
		return AchievementsResult{Status: AchievementsUnavailable}
	}

	return AchievementsResult{Status: AchievementsFetched, Achievements: ps.Achievements}
}

// GlobalAchievementPercentages returns the share of all players that
// unlocked each CS2 achievement.
func (c *Client) GlobalAchievementPercentages(ctx context.Context) ([]GlobalAchievement, error) {
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	var resp struct {
		AchievementPercentages struct {
			Achievements []GlobalAchievement `json:"achievements"`
		} `json:"achievementpercentages"`
	}

	params := url.Values{"gameid": {strconv.Itoa(CS2AppID)}}
	if err := c.get(ctx, pathGlobalAchievements, params, &resp); err != nil {
		return nil, err
	}

	return resp.AchievementPercentages.Achievements, nil
}

// News returns the raw news envelope of the application.
// Non-positive count falls back to DefaultNewsCount.
func (c *Client) News(ctx context.Context, appID, count int) (json.RawMessage, error) {
	if appID <= 0 {
		return nil, Invalid("appid required")
	}
	if count <= 0 {
		count = DefaultNewsCount
	}
	if err := c.checkConfigured(); err != nil {
		return nil, err
	}

	var resp json.RawMessage
	params := url.Values{"appid": {strconv.Itoa(appID)}, "count": {strconv.Itoa(count)}}
	if err := c.get(ctx, pathNews, params, &resp); err != nil {
		return nil, err
	}

	return resp, nil
}
