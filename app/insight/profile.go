package insight

import (
	"fmt"
	"math"
)

// Skill scores the player on 0..100 scales.
type Skill struct {
	Aim         float64 `json:"aim"`
	Precision   float64 `json:"precision"`
	Survival    float64 `json:"survival"`
	Teamwork    float64 `json:"teamwork"`
	Clutch      float64 `json:"clutch"`
	Consistency float64 `json:"consistency"`
}

// clutchBaseline is the clutch score of players without bomb defuse history.
const clutchBaseline = 30

func skillOf(r *Record) Skill {
	var clutch float64
	switch {
	case r.BombsDefused == 0:
		clutch = clutchBaseline
	case r.BombsPlanted == 0:
		clutch = 100 // defuses without plants, unbounded ratio
	default:
		clutch = float64(r.BombsDefused) / float64(r.BombsPlanted) * 200
	}

	return Skill{
		Aim:         capped(r.Accuracy * 4),
		Precision:   capped(r.HeadshotPercent * 2),
		Survival:    capped(r.KD * 40),
		Teamwork:    capped(r.MVPRate * 5),
		Clutch:      capped(clutch),
		Consistency: capped(r.WinRate),
	}
}

func capped(v float64) float64 { return round(math.Min(100, math.Max(0, v)), 1) }

// Combat splits the kills by how they were made.
type Combat struct {
	Regular     int64 `json:"regular"`
	Headshots   int64 `json:"headshots"`
	Knife       int64 `json:"knife"`
	Grenade     int64 `json:"grenade"`
	Blind       int64 `json:"blind"`
	EnemyWeapon int64 `json:"enemyWeapon"`
}

func combatOf(r *Record) Combat {
	regular := r.Kills - r.KnifeKills - r.GrenadeKills - r.BlindKills
	if regular < 0 {
		regular = 0
	}

	return Combat{
		Regular:     regular,
		Headshots:   int64(math.Round(float64(r.Kills) * r.HeadshotPercent / 100)),
		Knife:       r.KnifeKills,
		Grenade:     r.GrenadeKills,
		Blind:       r.BlindKills,
		EnemyWeapon: r.EnemyWeaponKills,
	}
}

// KDLabel rates the kill/death ratio.
func KDLabel(kd float64) string {
	switch {
	case kd >= 1.2:
		return "Excellent"
	case kd >= 1.0:
		return "Good"
	default:
		return "Needs work"
	}
}

// AccuracyLabel rates the accuracy percentage.
func AccuracyLabel(acc float64) string {
	if acc >= 20 {
		return "Sharp shooter"
	}
	return "Practice aim"
}

// HeadshotLabel rates the headshot percentage.
func HeadshotLabel(hs float64) string {
	if hs >= 40 {
		return "Precision master"
	}
	return "Aim higher"
}

// Analysis is a titled qualitative assessment.
type Analysis struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Analyze describes aim, combat, team impact and precision of the record.
func Analyze(r *Record) []Analysis {
	if r == nil {
		return nil
	}

	var aim string
	switch {
	case r.Accuracy > 20:
		aim = fmt.Sprintf("Excellent accuracy at %.1f%%! Keep it up.", r.Accuracy)
	case r.Accuracy > 15:
		aim = fmt.Sprintf("Good accuracy at %.1f%%. Try crosshair placement drills.", r.Accuracy)
	default:
		aim = fmt.Sprintf("Work on accuracy (%.1f%%). Focus on spray control.", r.Accuracy)
	}

	var combat string
	switch {
	case r.KD > 1.2:
		combat = fmt.Sprintf("Strong K/D ratio of %.2f. Dominating matches!", r.KD)
	case r.KD > 0.9:
		combat = fmt.Sprintf("Solid K/D of %.2f. Room for improvement.", r.KD)
	default:
		combat = fmt.Sprintf("Focus on survival. K/D of %.2f needs work.", r.KD)
	}

	team := "Focus on objective play"
	if r.MVPRate > 15 {
		team = "Excellent team player!"
	}

	precision := fmt.Sprintf("Headshot rate: %.1f%%. Practice aim maps!", r.HeadshotPercent)
	if r.HeadshotPercent > 40 {
		precision = fmt.Sprintf("Outstanding headshot rate: %.1f%%", r.HeadshotPercent)
	}

	return []Analysis{
		{Title: "Aim Performance", Text: aim},
		{Title: "Combat Effectiveness", Text: combat},
		{Title: "Team Impact", Text: fmt.Sprintf("MVP rate: %.1f%% - %s", r.MVPRate, team)},
		{Title: "Precision", Text: precision},
	}
}
