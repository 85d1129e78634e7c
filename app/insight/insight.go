// Package insight turns raw CS2 counters into ratios, per-weapon and
// per-map breakdowns and improvement suggestions.
//
// The engine is a pure function of its input: it keeps no state and is
// safe for concurrent use.
package insight

import (
	"math"
	"sort"

	"github.com/bobylevd/cs-stats-dash/app/steam"
)

// Record is the result of an engine run. Ratios are rounded to 2 decimal
// places, percentages to 1, per-round and per-minute values to whole numbers.
type Record struct {
	Kills            int64 `json:"kills"`
	Deaths           int64 `json:"deaths"`
	Wins             int64 `json:"wins"`
	Matches          int64 `json:"matches"`
	Rounds           int64 `json:"rounds"`
	MVPs             int64 `json:"mvps"`
	Money            int64 `json:"money"`
	Damage           int64 `json:"damage"`
	PlaytimeSeconds  int64 `json:"playtimeSeconds"`
	BombsPlanted     int64 `json:"bombsPlanted"`
	BombsDefused     int64 `json:"bombsDefused"`
	KnifeKills       int64 `json:"knifeKills"`
	GrenadeKills     int64 `json:"grenadeKills"`
	BlindKills       int64 `json:"blindKills"`
	EnemyWeaponKills int64 `json:"enemyWeaponKills"`

	KD                float64 `json:"kd"`
	Accuracy          float64 `json:"acc"`
	HeadshotPercent   float64 `json:"hsPercent"`
	WinRate           float64 `json:"winRate"`
	MVPRate           float64 `json:"mvpRate"`
	AvgDamagePerRound float64 `json:"avgDamagePerRound"`
	DamagePerMinute   float64 `json:"dpm"`
	HoursPlayed       float64 `json:"hoursPlayed"`

	LastMatch    LastMatch    `json:"lastMatch"`
	WeaponStats  []WeaponStat `json:"weaponStats"`
	MapStats     []MapStat    `json:"mapStats"`
	Combat       Combat       `json:"combat"`
	Skill        Skill        `json:"skill"`
	Improvements []string     `json:"improvements"`
}

// LastMatch holds the counters of the most recent match.
type LastMatch struct {
	Kills  int64   `json:"kills"`
	Deaths int64   `json:"deaths"`
	MVPs   int64   `json:"mvps"`
	Damage int64   `json:"damage"`
	Rounds int64   `json:"rounds"`
	Wins   int64   `json:"wins"`
	KD     float64 `json:"kd"`
}

// WeaponStat is the breakdown for a single weapon.
type WeaponStat struct {
	CatalogEntry
	Kills    int64   `json:"kills"`
	Shots    int64   `json:"shots"`
	Hits     int64   `json:"hits"`
	Accuracy float64 `json:"accuracy"`
}

// MapStat is the breakdown for a single map.
type MapStat struct {
	CatalogEntry
	Wins    int64   `json:"wins"`
	Rounds  int64   `json:"rounds"`
	WinRate float64 `json:"winRate"`
}

// Engine computes records against its weapon and map catalogs and its
// improvement rules.
type Engine struct {
	Weapons []CatalogEntry
	Maps    []CatalogEntry
	Rules   []Rule
}

// Default is the engine with the built-in catalogs and rules.
var Default = Engine{Weapons: DefaultWeapons, Maps: DefaultMaps, Rules: DefaultRules}

// Compute runs the default engine.
func Compute(ps *steam.PlayerStats) *Record { return Default.Compute(ps) }

// Compute derives the record from the player's statistics.
// Returns nil when there are no statistics at all, which is not the same
// as statistics with all counters at zero.
func (e Engine) Compute(ps *steam.PlayerStats) *Record {
	if ps == nil || ps.Stats == nil {
		return nil
	}

	c := newCounters(ps.Stats)

	r := &Record{
		Kills:            c.int("total_kills"),
		Deaths:           c.int("total_deaths"),
		Wins:             c.int("total_wins"),
		Matches:          c.int("total_matches_played"),
		Rounds:           c.int("total_rounds_played"),
		MVPs:             c.int("total_mvps"),
		Money:            c.int("total_money_earned"),
		Damage:           c.int("total_damage_done"),
		PlaytimeSeconds:  c.int("total_time_played"),
		BombsPlanted:     c.int("total_planted_bombs"),
		BombsDefused:     c.int("total_defused_bombs"),
		KnifeKills:       c.int("total_kills_knife"),
		GrenadeKills:     c.int("total_kills_hegrenade"),
		BlindKills:       c.int("total_kills_enemy_blinded"),
		EnemyWeaponKills: c.int("total_kills_enemy_weapon"),
	}

	kills := c.get("total_kills")
	rounds := c.get("total_rounds_played")
	damage := c.get("total_damage_done")
	playtime := c.get("total_time_played")

	r.KD = ratio(kills, c.get("total_deaths"))
	r.Accuracy = percent(c.get("total_shots_hit"), c.get("total_shots_fired"))
	r.HeadshotPercent = percent(c.get("total_kills_headshot"), kills)
	r.WinRate = percent(c.get("total_wins"), c.get("total_matches_played"))
	r.MVPRate = percent(c.get("total_mvps"), rounds)
	r.AvgDamagePerRound = ratio(damage, rounds)
	r.DamagePerMinute = ratio(damage, playtime/60)
	r.HoursPlayed = ratio(playtime, 3600)

	// rules see the exact ratios, everything after them the rounded ones
	r.Improvements = e.improvements(r)
	r.roundRatios()

	r.LastMatch = LastMatch{
		Kills:  c.int("last_match_kills"),
		Deaths: c.int("last_match_deaths"),
		MVPs:   c.int("last_match_mvps"),
		Damage: c.int("last_match_damage"),
		Rounds: c.int("last_match_rounds"),
		Wins:   c.int("last_match_wins"),
		KD:     round(ratio(c.get("last_match_kills"), c.get("last_match_deaths")), 2),
	}

	r.WeaponStats = e.weapons(c)
	r.MapStats = e.maps(c)
	r.Combat = combatOf(r)
	r.Skill = skillOf(r)

	return r
}

func (r *Record) roundRatios() {
	r.KD = round(r.KD, 2)
	r.Accuracy = round(r.Accuracy, 1)
	r.HeadshotPercent = round(r.HeadshotPercent, 1)
	r.WinRate = round(r.WinRate, 1)
	r.MVPRate = round(r.MVPRate, 1)
	r.AvgDamagePerRound = round(r.AvgDamagePerRound, 0)
	r.DamagePerMinute = round(r.DamagePerMinute, 0)
	r.HoursPlayed = round(r.HoursPlayed, 0)
}

func (e Engine) weapons(c counters) []WeaponStat {
	res := []WeaponStat{}
	for _, w := range e.Weapons {
		kills := c.get("total_kills_" + w.Key)
		if kills <= 0 {
			continue
		}

		shots, hits := c.get("total_shots_"+w.Key), c.get("total_hits_"+w.Key)
		res = append(res, WeaponStat{
			CatalogEntry: w,
			Kills:        int64(kills),
			Shots:        int64(shots),
			Hits:         int64(hits),
			Accuracy:     round(percent(hits, shots), 1),
		})
	}

	sort.SliceStable(res, func(i, j int) bool { return res[i].Kills > res[j].Kills })
	return res
}

func (e Engine) maps(c counters) []MapStat {
	res := []MapStat{}
	for _, m := range e.Maps {
		rounds := c.get("total_rounds_map_" + m.Key)
		if rounds <= 0 {
			continue
		}

		wins := c.get("total_wins_map_" + m.Key)
		res = append(res, MapStat{
			CatalogEntry: m,
			Wins:         int64(wins),
			Rounds:       int64(rounds),
			WinRate:      round(percent(wins, rounds), 1),
		})
	}

	sort.SliceStable(res, func(i, j int) bool { return res[i].Rounds > res[j].Rounds })
	return res
}

func (e Engine) improvements(r *Record) []string {
	res := []string{}
	for _, rule := range e.Rules {
		if rule.Applies(r) {
			res = append(res, rule.Suggestion)
		}
	}
	return res
}

// counters indexes the stats by name, the first entry of a name wins.
type counters map[string]float64

func newCounters(stats []steam.Counter) counters {
	c := make(counters, len(stats))
	for _, s := range stats {
		if _, ok := c[s.Name]; !ok {
			c[s.Name] = s.Value
		}
	}
	return c
}

// get returns the counter value, zero if absent.
func (c counters) get(name string) float64 { return c[name] }

func (c counters) int(name string) int64 { return int64(c[name]) }

// ratio divides a by b, zero when b is zero.
// The result is never negative, NaN or infinite.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	v := a / b
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func percent(a, b float64) float64 { return ratio(a, b) * 100 }

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
