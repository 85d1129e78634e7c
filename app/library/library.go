// Package library groups, filters and describes the games a player owns.
package library

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bobylevd/cs-stats-dash/app/steam"
)

// Collection keys.
const (
	CollectionAll       = "all"
	CollectionUnplayed  = "unplayed"
	CollectionUnder2h   = "under2h"
	CollectionRecent    = "recent"
	CollectionFavorites = "favorites"
)

// Sort orders.
const (
	SortPlaytime = "playtime"
	SortName     = "name"
	SortRecent   = "recent"
)

// Collection is a named subset of the library.
type Collection struct {
	Key   string       `json:"key"`
	Label string       `json:"label"`
	Games []steam.Game `json:"games"`
}

// Collections splits the games into the fixed set of collections, in
// display order. A game may belong to several collections.
func Collections(games []steam.Game) []Collection {
	cols := []Collection{
		{Key: CollectionAll, Label: "All Games", Games: games},
		{Key: CollectionUnplayed, Label: "Unplayed"},
		{Key: CollectionUnder2h, Label: "Under 2h"},
		{Key: CollectionRecent, Label: "Recently Played"},
		{Key: CollectionFavorites, Label: "Most Played"},
	}

	for _, g := range games {
		if g.PlaytimeForever == 0 {
			cols[1].Games = append(cols[1].Games, g)
		}
		if g.PlaytimeForever > 0 && g.PlaytimeForever < 120 {
			cols[2].Games = append(cols[2].Games, g)
		}
		if g.Playtime2Weeks > 0 {
			cols[3].Games = append(cols[3].Games, g)
		}
		if g.PlaytimeForever > 600 { // 10+ hours
			cols[4].Games = append(cols[4].Games, g)
		}
	}

	return cols
}

// Select returns the games of the collection with the given key.
func Select(games []steam.Game, key string) ([]steam.Game, error) {
	for _, c := range Collections(games) {
		if c.Key == key {
			return c.Games, nil
		}
	}
	return nil, fmt.Errorf("unknown collection %q", key)
}

// Filter keeps the games with names containing the query, case-insensitive.
func Filter(games []steam.Game, query string) []steam.Game {
	query = strings.ToLower(strings.TrimSpace(query))
	res := make([]steam.Game, 0, len(games))
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Name), query) {
			res = append(res, g)
		}
	}
	return res
}

// Sort returns a sorted copy of the games. Unknown orders keep the input order.
func Sort(games []steam.Game, by string) []steam.Game {
	res := make([]steam.Game, len(games))
	copy(res, games)

	switch by {
	case SortPlaytime:
		sort.SliceStable(res, func(i, j int) bool { return res[i].PlaytimeForever > res[j].PlaytimeForever })
	case SortName:
		sort.SliceStable(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	case SortRecent:
		sort.SliceStable(res, func(i, j int) bool { return res[i].RTimeLastPlayed > res[j].RTimeLastPlayed })
	}

	return res
}

// PlaytimeInsights describes how much the game was played overall and recently.
func PlaytimeInsights(g steam.Game) []string {
	total, recent := g.PlaytimeForever, g.Playtime2Weeks

	var res []string
	switch {
	case total == 0:
		res = append(res, "Never played - ready to start!")
	case total < 60:
		res = append(res, "Just getting started")
	case total < 300:
		res = append(res, "Getting into it")
	case total < 1200:
		res = append(res, "Regular player")
	default:
		res = append(res, "Dedicated player")
	}

	if recent > 0 && total > 0 {
		res = append(res, fmt.Sprintf("%.1f%% of total time in last 2 weeks", float64(recent)/float64(total)*100))
	}

	return res
}

// Platform is the playtime on a single platform, in minutes.
type Platform struct {
	Name    string `json:"name"`
	Minutes int    `json:"minutes"`
}

// Platforms returns the platforms the game was played on.
func Platforms(g steam.Game) []Platform {
	all := []Platform{
		{Name: "Windows", Minutes: g.PlaytimeWindows},
		{Name: "Mac", Minutes: g.PlaytimeMac},
		{Name: "Linux", Minutes: g.PlaytimeLinux},
		{Name: "Steam Deck", Minutes: g.PlaytimeDeck},
	}

	var res []Platform
	for _, p := range all {
		if p.Minutes > 0 {
			res = append(res, p)
		}
	}
	return res
}

// FormatPlaytime renders minutes as "Xh Ym".
func FormatPlaytime(minutes int) string {
	if minutes <= 0 {
		return "0h 0m"
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
