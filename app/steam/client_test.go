package steam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testKey     = "SECRETKEY123"
	testSteamID = "76561197960287930"
)

// fakeSteam serves canned bodies per path and counts the requests.
type fakeSteam struct {
	t        *testing.T
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
	requests atomic.Int32
}

func (f *fakeSteam) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	if got := r.URL.Query().Get("key"); got != testKey {
		f.t.Errorf("request %s without key, got %q", r.URL.Path, got)
	}
	h, ok := f.routes[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func jsonBody(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func status(code int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeSteam) {
	t.Helper()
	f := &fakeSteam{t: t, routes: routes}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(srv.URL, testKey, 5*time.Second), f
}

func TestClient_ResolveVanity(t *testing.T) {
	c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
		pathResolveVanity: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("vanityurl") == "gaben" {
				jsonBody(`{"response":{"steamid":"` + testSteamID + `","success":1}}`)(w, r)
				return
			}
			jsonBody(`{"response":{"success":42,"message":"No match"}}`)(w, r)
		},
	})

	id, err := c.ResolveVanity(context.Background(), "gaben")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != testSteamID {
		t.Errorf("steamid = %q, want %q", id, testSteamID)
	}

	_, err = c.ResolveVanity(context.Background(), "nobody")
	if KindOf(err) != KindNotFound {
		t.Fatalf("unresolved vanity kind = %v (%v), want not found", KindOf(err), err)
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Errorf("status = %d, want 404", StatusCode(err))
	}
}

func TestClient_ValidationBeforeRequest(t *testing.T) {
	c, f := newTestClient(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"empty vanity", func() error { _, err := c.ResolveVanity(ctx, "  "); return err }},
		{"empty steam id", func() error { _, err := c.PlayerSummary(ctx, ""); return err }},
		{"short steam id", func() error { _, err := c.OwnedGames(ctx, "12345"); return err }},
		{"non numeric steam id", func() error { _, err := c.CS2Stats(ctx, "7656119796028793x"); return err }},
		{"no appid", func() error { _, err := c.News(ctx, 0, 3); return err }},
		{"empty identifier", func() error { _, err := c.ResolveIdentifier(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if KindOf(err) != KindValidation {
				t.Fatalf("kind = %v (%v), want validation", KindOf(err), err)
			}
			if StatusCode(err) != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", StatusCode(err))
			}
		})
	}

	if n := f.requests.Load(); n != 0 {
		t.Errorf("made %d upstream requests, want none", n)
	}
}

func TestClient_NoCredential(t *testing.T) {
	c := New("http://127.0.0.1:1", "", time.Second)
	ctx := context.Background()

	calls := map[string]func() error{
		"resolve":  func() error { _, err := c.ResolveVanity(ctx, "gaben"); return err },
		"summary":  func() error { _, err := c.PlayerSummary(ctx, testSteamID); return err },
		"games":    func() error { _, err := c.OwnedGames(ctx, testSteamID); return err },
		"stats":    func() error { _, err := c.CS2Stats(ctx, testSteamID); return err },
		"news":     func() error { _, err := c.News(ctx, CS2AppID, 3); return err },
		"global":   func() error { _, err := c.GlobalAchievementPercentages(ctx); return err },
		"identify": func() error { _, err := c.ResolveIdentifier(ctx, "gaben"); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if !errors.Is(err, ErrNoCredential) {
				t.Fatalf("err = %v, want ErrNoCredential", err)
			}
			if KindOf(err) != KindConfig {
				t.Errorf("kind = %v, want config", KindOf(err))
			}
			if StatusCode(err) != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want 503", StatusCode(err))
			}
		})
	}
}

func TestClient_PlayerSummary(t *testing.T) {
	c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
		pathPlayerSummaries: func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("steamids") == testSteamID {
				jsonBody(`{"response":{"players":[{"steamid":"` + testSteamID + `","personaname":"Rabscuttle"}]}}`)(w, r)
				return
			}
			jsonBody(`{"response":{"players":[]}}`)(w, r)
		},
	})

	p, err := c.PlayerSummary(context.Background(), testSteamID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if p.PersonaName != "Rabscuttle" {
		t.Errorf("persona = %q, want Rabscuttle", p.PersonaName)
	}

	_, err = c.PlayerSummary(context.Background(), "76561197960287931")
	if !IsNotFound(err) {
		t.Errorf("empty players: err = %v, want not found", err)
	}
}

func TestClient_OwnedGames(t *testing.T) {
	c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
		pathOwnedGames: func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("include_appinfo") != "1" || q.Get("include_played_free_games") != "1" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			jsonBody(`{"response":{"game_count":2,"games":[{"appid":730,"name":"Counter-Strike 2","playtime_forever":1200},{"appid":570,"name":"Dota 2","playtime_forever":0}]}}`)(w, r)
		},
	})

	games, err := c.OwnedGames(context.Background(), testSteamID)
	if err != nil {
		t.Fatalf("owned games: %v", err)
	}
	if games.GameCount != 2 || len(games.Games) != 2 {
		t.Fatalf("got %+v, want two games", games)
	}
	if games.Games[0].AppID != CS2AppID || games.Games[0].PlaytimeForever != 1200 {
		t.Errorf("first game = %+v", games.Games[0])
	}
}

func TestClient_CS2Stats(t *testing.T) {
	const statsBody = `{"playerstats":{"steamID":"` + testSteamID + `","gameName":"ValveTestApp260",
		"stats":[{"name":"total_kills","value":100},{"name":"total_deaths","value":50}],
		"achievements":[{"name":"WIN_BOMB_PLANT","achieved":1}]}}`

	t.Run("merged with achievements", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
			pathUserStats:          jsonBody(statsBody),
			pathPlayerAchievements: jsonBody(`{"playerstats":{"steamID":"x","achievements":[{"apiname":"WIN_ROUNDS_LOW","achieved":1,"unlocktime":1500000000}],"success":true}}`),
		})

		st, err := c.CS2Stats(context.Background(), testSteamID)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if len(st.Stats) != 2 {
			t.Errorf("stats len = %d, want 2", len(st.Stats))
		}
		if st.AchievementsResult.Status != AchievementsFetched {
			t.Fatalf("achievements status = %v, want fetched", st.AchievementsResult.Status)
		}

		b, err := json.Marshal(st)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out map[string]json.RawMessage
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !strings.Contains(string(out["achievements"]), "WIN_ROUNDS_LOW") {
			t.Errorf("achievements = %s, want the achievements call result", out["achievements"])
		}
		if string(out["steamID"]) != `"`+testSteamID+`"` {
			t.Errorf("steamID = %s", out["steamID"])
		}
	})

	t.Run("achievements failure tolerated", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
			pathUserStats:          jsonBody(statsBody),
			pathPlayerAchievements: status(http.StatusInternalServerError, "boom"),
		})

		st, err := c.CS2Stats(context.Background(), testSteamID)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if st.AchievementsResult.Status != AchievementsFailed || st.AchievementsResult.Err == nil {
			t.Fatalf("achievements = %+v, want tolerated failure", st.AchievementsResult)
		}

		b, err := json.Marshal(st)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(b), `"achievements":null`) {
			t.Errorf("json = %s, want achievements null", b)
		}
	})

	t.Run("private achievements", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
			pathUserStats:          jsonBody(statsBody),
			pathPlayerAchievements: jsonBody(`{"playerstats":{"error":"Profile is not public","success":false}}`),
		})

		st, err := c.CS2Stats(context.Background(), testSteamID)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if st.AchievementsResult.Status != AchievementsUnavailable {
			t.Errorf("achievements status = %v, want unavailable", st.AchievementsResult.Status)
		}
	})

	t.Run("no stats object", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
			pathUserStats:          jsonBody(`{}`),
			pathPlayerAchievements: jsonBody(`{}`),
		})

		_, err := c.CS2Stats(context.Background(), testSteamID)
		if !IsNotFound(err) {
			t.Errorf("err = %v, want not found", err)
		}
	})

	t.Run("private profile", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
			pathUserStats:          status(http.StatusForbidden, "<html>Forbidden</html>"),
			pathPlayerAchievements: status(http.StatusForbidden, ""),
		})

		_, err := c.CS2Stats(context.Background(), testSteamID)
		if KindOf(err) != KindUpstream {
			t.Fatalf("kind = %v (%v), want upstream", KindOf(err), err)
		}
		if StatusCode(err) != http.StatusForbidden {
			t.Errorf("status = %d, want 403", StatusCode(err))
		}
		if !strings.Contains(err.Error(), "403") {
			t.Errorf("message %q doesn't carry upstream status", err)
		}
	})
}

func TestClient_UpstreamErrorRedactsKey(t *testing.T) {
	c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
		pathNews: func(w http.ResponseWriter, r *http.Request) {
			status(http.StatusBadGateway, "bad gateway for "+r.URL.String())(w, r)
		},
	})

	_, err := c.News(context.Background(), CS2AppID, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), testKey) {
		t.Errorf("error leaks the key: %v", err)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q doesn't carry upstream status", err)
	}
	if StatusCode(err) != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", StatusCode(err))
	}
}

func TestClient_TransportErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := New(addr, testKey, time.Second)
	_, err := c.OwnedGames(context.Background(), testSteamID)
	if KindOf(err) != KindUpstream {
		t.Fatalf("kind = %v (%v), want upstream", KindOf(err), err)
	}
	if strings.Contains(err.Error(), testKey) {
		t.Errorf("error leaks the key: %v", err)
	}
}

func TestClient_News(t *testing.T) {
	c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
		pathNews: func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("count"); got != "3" {
				t.Errorf("count = %q, want default 3", got)
			}
			jsonBody(`{"appnews":{"appid":730,"newsitems":[{"gid":"1","title":"Release Notes"}],"count":1}}`)(w, r)
		},
	})

	raw, err := c.News(context.Background(), CS2AppID, 0)
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if !strings.Contains(string(raw), `"appnews"`) {
		t.Errorf("news = %s, want raw envelope", raw)
	}
}

func TestClient_GlobalAchievementPercentages(t *testing.T) {
	c, _ := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
		pathGlobalAchievements: jsonBody(`{"achievementpercentages":{"achievements":[{"name":"A","percent":"61.5"},{"name":"B","percent":2.25}]}}`),
	})

	got, err := c.GlobalAchievementPercentages(context.Background())
	if err != nil {
		t.Fatalf("global: %v", err)
	}
	if len(got) != 2 || got[0].Percent != 61.5 || got[1].Percent != 2.25 {
		t.Errorf("got %+v", got)
	}
}

func TestClient_ResolveIdentifier(t *testing.T) {
	c, f := newTestClient(t, map[string]func(w http.ResponseWriter, r *http.Request){
		pathResolveVanity: jsonBody(`{"response":{"steamid":"` + testSteamID + `","success":1}}`),
	})

	id, err := c.ResolveIdentifier(context.Background(), " "+testSteamID+" ")
	if err != nil || id != testSteamID {
		t.Fatalf("steam id passthrough = %q, %v", id, err)
	}
	if n := f.requests.Load(); n != 0 {
		t.Errorf("steam id resolved with %d requests, want none", n)
	}

	id, err = c.ResolveIdentifier(context.Background(), "gaben")
	if err != nil || id != testSteamID {
		t.Fatalf("vanity = %q, %v", id, err)
	}
}

func TestIsSteamID64(t *testing.T) {
	tests := map[string]bool{
		testSteamID:          true,
		"7656119796028793":   false,
		"765611979602879300": false,
		"7656119796028793a":  false,
		"":                   false,
	}
	for in, want := range tests {
		if got := IsSteamID64(in); got != want {
			t.Errorf("IsSteamID64(%q) = %v, want %v", in, got, want)
		}
	}
}
