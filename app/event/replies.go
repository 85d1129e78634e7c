package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/syohex/go-texttable"

	"github.com/bobylevd/cs-stats-dash/app/insight"
	"github.com/bobylevd/cs-stats-dash/app/library"
	"github.com/bobylevd/cs-stats-dash/app/state"
	"github.com/bobylevd/cs-stats-dash/app/steam"
)

// maxRows keeps replies under the discord message limit.
const maxRows = 10

func block(s string) string { return "```\n" + s + "\n```" }

func statReply(snap state.Snapshot) string {
	if snap.Insights == nil {
		return noStats(snap)
	}
	r := snap.Insights

	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Metric", "Value", "Rating")
	_ = tbl.AddRow("K/D", fmt.Sprintf("%.2f", r.KD), insight.KDLabel(r.KD))
	_ = tbl.AddRow("Accuracy", fmt.Sprintf("%.1f%%", r.Accuracy), insight.AccuracyLabel(r.Accuracy))
	_ = tbl.AddRow("Headshots", fmt.Sprintf("%.1f%%", r.HeadshotPercent), insight.HeadshotLabel(r.HeadshotPercent))
	_ = tbl.AddRow("Win rate", fmt.Sprintf("%.1f%%", r.WinRate), "")
	_ = tbl.AddRow("MVP rate", fmt.Sprintf("%.1f%%", r.MVPRate), "")
	_ = tbl.AddRow("ADR", fmt.Sprintf("%.0f", r.AvgDamagePerRound), "")
	_ = tbl.AddRow("Damage/min", fmt.Sprintf("%.0f", r.DamagePerMinute), "")
	_ = tbl.AddRow("Hours", fmt.Sprintf("%.0f", r.HoursPlayed), "")

	lm := r.LastMatch
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (%s)\n", playerName(snap), snap.SteamID)
	sb.WriteString(block(tbl.Draw()))
	fmt.Fprintf(&sb, "\nLast match: %d kills, %d deaths, K/D %.2f, %d MVPs, %d damage\n",
		lm.Kills, lm.Deaths, lm.KD, lm.MVPs, lm.Damage)

	improvements := r.Improvements
	if len(improvements) == 0 {
		improvements = []string{insight.DefaultImprovement}
	}
	sb.WriteString("Suggestions:\n")
	for _, s := range improvements {
		sb.WriteString("- " + s + "\n")
	}

	return sb.String()
}

func noStats(snap state.Snapshot) string {
	reason := snap.StatsError
	if reason == "" {
		reason = "no data"
	}
	return fmt.Sprintf("no CS2 stats for %s: %s", playerName(snap), reason)
}

func playerName(snap state.Snapshot) string {
	if snap.Profile != nil && snap.Profile.PersonaName != "" {
		return snap.Profile.PersonaName
	}
	return snap.SteamID
}

func weaponsReply(weapons []insight.WeaponStat) string {
	if len(weapons) == 0 {
		return "no weapon kills recorded"
	}

	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Weapon", "Kills", "Shots", "Hits", "Accuracy")
	for i, w := range weapons {
		if i == maxRows {
			break
		}
		_ = tbl.AddRow(
			w.Name,
			strconv.FormatInt(w.Kills, 10),
			strconv.FormatInt(w.Shots, 10),
			strconv.FormatInt(w.Hits, 10),
			fmt.Sprintf("%.1f%%", w.Accuracy),
		)
	}

	return block(tbl.Draw())
}

func mapsReply(maps []insight.MapStat) string {
	if len(maps) == 0 {
		return "no map rounds recorded"
	}

	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Map", "Rounds", "Wins", "Win rate")
	for i, m := range maps {
		if i == maxRows {
			break
		}
		_ = tbl.AddRow(
			m.Name,
			strconv.FormatInt(m.Rounds, 10),
			strconv.FormatInt(m.Wins, 10),
			fmt.Sprintf("%.1f%%", m.WinRate),
		)
	}

	return block(tbl.Draw())
}

func gamesReply(games []steam.Game, collection string) string {
	selected, err := library.Select(games, collection)
	if err != nil {
		return err.Error()
	}
	if len(selected) == 0 {
		return fmt.Sprintf("no games in %q", collection)
	}

	selected = library.Sort(selected, library.SortPlaytime)

	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Game", "Playtime", "Last 2 weeks")
	for i, g := range selected {
		if i == maxRows {
			break
		}
		_ = tbl.AddRow(g.Name, library.FormatPlaytime(g.PlaytimeForever), library.FormatPlaytime(g.Playtime2Weeks))
	}

	return fmt.Sprintf("%d games in %q\n%s", len(selected), collection, block(tbl.Draw()))
}

func newsReply(raw json.RawMessage) (string, error) {
	var resp struct {
		AppNews struct {
			NewsItems []struct {
				Title string `json:"title"`
				URL   string `json:"url"`
				Date  int64  `json:"date"`
			} `json:"newsitems"`
		} `json:"appnews"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode news: %w", err)
	}

	items := resp.AppNews.NewsItems
	if len(items) == 0 {
		return "no CS2 news", nil
	}

	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "%s **%s**\n<%s>\n", time.Unix(it.Date, 0).UTC().Format("2006-01-02"), it.Title, it.URL)
	}
	return sb.String(), nil
}
