package insight

// DefaultImprovement is shown by the presentation layer when no rule applies.
const DefaultImprovement = "Solid baseline. Keep grinding."

// Rule contributes its suggestion when Applies holds for the record.
// Applies sees the record with its ratios not yet rounded.
type Rule struct {
	Name       string
	Applies    func(r *Record) bool
	Suggestion string
}

// DefaultRules are evaluated in order against the unrounded ratios of the
// record, before Compute rounds them.
var DefaultRules = []Rule{
	{
		Name:       "kd",
		Applies:    func(r *Record) bool { return r.KD < 1.0 },
		Suggestion: "Improve survivability: play for trades, tighter angles, better utility.",
	},
	{
		Name:       "headshot",
		Applies:    func(r *Record) bool { return r.HeadshotPercent < 35 },
		Suggestion: "Aim focus: practice headshot drills; target 35%+ HS%.",
	},
	{
		Name:       "accuracy",
		Applies:    func(r *Record) bool { return r.Accuracy < 20 },
		Suggestion: "Spray control + crosshair placement: push accuracy above 20%.",
	},
	{
		Name:       "damage",
		Applies:    func(r *Record) bool { return r.AvgDamagePerRound < 70 },
		Suggestion: "Impact: use nades to chip damage; isolate duels, aim for 70+ damage per round.",
	},
	{
		Name:       "win rate",
		Applies:    func(r *Record) bool { return r.WinRate < 50 },
		Suggestion: "Team play: communicate, trade and play the objective to lift win rate above 50%.",
	},
	{
		Name:       "mvp rate",
		Applies:    func(r *Record) bool { return r.MVPRate < 10 },
		Suggestion: "Round impact: take the deciding duels and clutches to earn MVPs in 10%+ of rounds.",
	},
}
