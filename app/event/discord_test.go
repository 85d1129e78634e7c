package event

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/bobylevd/cs-stats-dash/app/dashboard"
	"github.com/bobylevd/cs-stats-dash/app/insight"
	"github.com/bobylevd/cs-stats-dash/app/state"
	"github.com/bobylevd/cs-stats-dash/app/steam"
	"github.com/bobylevd/cs-stats-dash/app/store"
)

const testSteamID = "76561197960287930"

type fakeSteam struct{}

func (fakeSteam) ResolveIdentifier(_ context.Context, ident string) (string, error) {
	switch {
	case ident == "gaben":
		return testSteamID, nil
	case steam.IsSteamID64(ident):
		return ident, nil
	default:
		return "", steam.Invalid("vanity %q not found", ident)
	}
}

func (fakeSteam) PlayerSummary(_ context.Context, id string) (steam.PlayerSummary, error) {
	return steam.PlayerSummary{SteamID: id, PersonaName: "Rabscuttle"}, nil
}

func (fakeSteam) OwnedGames(context.Context, string) (steam.OwnedGames, error) {
	return steam.OwnedGames{GameCount: 2, Games: []steam.Game{
		{AppID: 730, Name: "Counter-Strike 2", PlaytimeForever: 600},
		{AppID: 440, Name: "Team Fortress 2"},
	}}, nil
}

func (fakeSteam) CS2Stats(context.Context, string) (steam.CS2Stats, error) {
	return steam.CS2Stats{PlayerStats: steam.PlayerStats{Stats: []steam.Counter{
		{Name: "total_kills", Value: 200},
		{Name: "total_deaths", Value: 100},
		{Name: "total_kills_ak47", Value: 120},
		{Name: "total_shots_ak47", Value: 900},
		{Name: "total_hits_ak47", Value: 270},
		{Name: "total_rounds_map_de_dust2", Value: 40},
		{Name: "total_wins_map_de_dust2", Value: 24},
	}}}, nil
}

func (fakeSteam) News(context.Context, int, int) (json.RawMessage, error) {
	return json.RawMessage(`{"appnews":{"newsitems":[{"title":"Release Notes","url":"https://example.com/n","date":1700000000}]}}`), nil
}

type memPersister struct {
	mu    sync.Mutex
	prefs map[string]store.Preferences
}

func (m *memPersister) Get(_ context.Context, owner string) (store.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[owner]
	if !ok {
		return store.Preferences{}, store.ErrNotFound
	}
	return p, nil
}

func (m *memPersister) Upsert(_ context.Context, p store.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		m.prefs = map[string]store.Preferences{}
	}
	m.prefs[p.Owner] = p
	return nil
}

func newTestDiscord() (*Discord, *memPersister) {
	p := &memPersister{}
	return &Discord{Dashboard: &dashboard.Service{Steam: fakeSteam{}}, Store: p}, p
}

func asSender(id string) context.Context {
	return context.WithValue(context.Background(), senderIDKey{}, id)
}

func TestDiscord_RegisterAndStat(t *testing.T) {
	d, p := newTestDiscord()
	ctx := asSender("100")

	reply, err := d.stat(ctx, nil)
	if err != nil || !strings.Contains(reply, "!register") {
		t.Fatalf("stat before register = %q, %v", reply, err)
	}

	if reply, err = d.register(ctx, []string{"gaben"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(reply, testSteamID) {
		t.Errorf("register reply = %q", reply)
	}
	if p.prefs["discord:100"].SteamID != testSteamID {
		t.Errorf("persisted = %+v", p.prefs)
	}

	reply, err = d.stat(ctx, nil)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	for _, want := range []string{"Rabscuttle", "K/D", "2.00", "Excellent", "Suggestions"} {
		if !strings.Contains(reply, want) {
			t.Errorf("stat reply misses %q:\n%s", want, reply)
		}
	}

	// a mentioned user is looked up by the registration of that user
	reply, err = d.stat(asSender("200"), []string{"<@100>"})
	if err != nil || !strings.Contains(reply, "Rabscuttle") {
		t.Errorf("stat of mentioned user = %q, %v", reply, err)
	}
}

func TestDiscord_ExplicitIdentifierNotPersisted(t *testing.T) {
	d, p := newTestDiscord()

	reply, err := d.weapons(asSender("100"), []string{testSteamID})
	if err != nil {
		t.Fatalf("weapons: %v", err)
	}
	if !strings.Contains(reply, "AK-47") || !strings.Contains(reply, "30.0%") {
		t.Errorf("weapons reply:\n%s", reply)
	}
	if len(p.prefs) != 0 {
		t.Errorf("explicit identifier persisted: %+v", p.prefs)
	}
}

func TestDiscord_UserErrors(t *testing.T) {
	d, _ := newTestDiscord()

	reply, err := d.register(asSender("100"), []string{"nobody"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(reply, "not found") {
		t.Errorf("reply = %q", reply)
	}

	if reply, _ = d.register(asSender("100"), nil); !strings.HasPrefix(reply, "usage:") {
		t.Errorf("reply without args = %q", reply)
	}

	reply, err = d.maps(asSender("100"), []string{"nobody"})
	if err != nil || !strings.Contains(reply, "nobody") {
		t.Errorf("maps reply = %q, %v", reply, err)
	}
}

func TestDiscord_GamesNewsTheme(t *testing.T) {
	d, p := newTestDiscord()
	ctx := asSender("100")

	reply, err := d.games(ctx, []string{"gaben", "unplayed"})
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if !strings.Contains(reply, "Team Fortress 2") || strings.Contains(reply, "Counter-Strike 2") {
		t.Errorf("unplayed games reply:\n%s", reply)
	}

	if reply, err = d.news(ctx, nil); err != nil || !strings.Contains(reply, "Release Notes") {
		t.Errorf("news = %q, %v", reply, err)
	}

	if reply, err = d.theme(ctx, nil); err != nil || reply != "theme set to light" {
		t.Errorf("theme = %q, %v", reply, err)
	}
	if p.prefs["discord:100"].Theme != store.ThemeLight {
		t.Errorf("theme not persisted: %+v", p.prefs)
	}
}

func TestDiscord_Command(t *testing.T) {
	d, _ := newTestDiscord()

	for _, content := range []string{"!stat", "!stat gaben", "!weapons", "!maps", "!games unplayed", "!news", "!theme", "!register x", "!ping", "!help"} {
		if d.command(content) == nil {
			t.Errorf("no command for %q", content)
		}
	}
	for _, content := range []string{"!statistics", "!selectteams", "!"} {
		if d.command(content) != nil {
			t.Errorf("unexpected command for %q", content)
		}
	}
}

func TestParseDiscordRef(t *testing.T) {
	tests := map[string]string{
		"<@!123>": "123",
		"<@123>":  "123",
		"gaben":   "gaben",
		"<#123>":  "<#123>",
	}
	for in, want := range tests {
		if got := parseDiscordRef(in); got != want {
			t.Errorf("parseDiscordRef(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitGamesArgs(t *testing.T) {
	target, collection := splitGamesArgs([]string{"gaben", "recent"})
	if len(target) != 1 || target[0] != "gaben" || collection != "recent" {
		t.Errorf("got %v, %q", target, collection)
	}

	target, collection = splitGamesArgs(nil)
	if target != nil || collection != "all" {
		t.Errorf("defaults = %v, %q", target, collection)
	}
}

func TestStatReply_DefaultImprovement(t *testing.T) {
	snap := state.Snapshot{SteamID: testSteamID, Insights: &insight.Record{KD: 1.5}}
	if reply := statReply(snap); !strings.Contains(reply, insight.DefaultImprovement) {
		t.Errorf("reply without improvements:\n%s", reply)
	}

	snap = state.Snapshot{SteamID: testSteamID, StatsError: "private profile"}
	if reply := statReply(snap); !strings.Contains(reply, "private profile") {
		t.Errorf("reply without stats = %q", reply)
	}
}

func TestStatReply_WholeNumberRows(t *testing.T) {
	snap := state.Snapshot{SteamID: testSteamID, Insights: &insight.Record{AvgDamagePerRound: 82, DamagePerMinute: 115, HoursPlayed: 10}}
	reply := statReply(snap)
	for _, unwanted := range []string{"82.0", "115.0", "10.0"} {
		if strings.Contains(reply, unwanted) {
			t.Errorf("reply shows %s:\n%s", unwanted, reply)
		}
	}
	for _, want := range []string{"82", "115"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply misses %s:\n%s", want, reply)
		}
	}
}
