package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobylevd/cs-stats-dash/app/insight"
	"github.com/bobylevd/cs-stats-dash/app/library"
	"github.com/bobylevd/cs-stats-dash/app/state"
	"github.com/bobylevd/cs-stats-dash/app/steam"
	"github.com/bobylevd/cs-stats-dash/app/store"
)

// defaultOwner owns the state of requests that don't name an owner.
const defaultOwner = "web"

func (s *Server) resolveVanity(w http.ResponseWriter, r *http.Request) {
	id, err := s.Steam.ResolveVanity(r.Context(), r.URL.Query().Get("vanity"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"steamid": id})
}

func (s *Server) playerSummary(w http.ResponseWriter, r *http.Request) {
	p, err := s.Steam.PlayerSummary(r.Context(), r.URL.Query().Get("steamId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) ownedGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.Steam.OwnedGames(r.Context(), r.URL.Query().Get("steamId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) cs2Stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Steam.CS2Stats(r.Context(), r.URL.Query().Get("steamId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) cs2GlobalStats(w http.ResponseWriter, r *http.Request) {
	ach, err := s.Steam.GlobalAchievementPercentages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": ach})
}

func (s *Server) news(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("appid") == "" {
		writeError(w, r, steam.Invalid("appid required"))
		return
	}
	appID, err := strconv.Atoi(q.Get("appid"))
	if err != nil || appID <= 0 {
		writeError(w, r, steam.Invalid("appid must be a positive number, got %q", q.Get("appid")))
		return
	}

	count := steam.DefaultNewsCount
	if v := q.Get("count"); v != "" {
		if count, err = strconv.Atoi(v); err != nil || count <= 0 {
			writeError(w, r, steam.Invalid("count must be a positive number, got %q", v))
			return
		}
	}

	news, err := s.Steam.News(r.Context(), appID, count)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, news)
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	st, err := s.Steam.CS2Stats(r.Context(), r.URL.Query().Get("steamId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec := insight.Compute(&st.PlayerStats)
	writeJSON(w, http.StatusOK, struct {
		Insights *insight.Record    `json:"insights"`
		Analysis []insight.Analysis `json:"analysis"`
		KD       string             `json:"kdLabel"`
		Accuracy string             `json:"accLabel"`
		Headshot string             `json:"hsLabel"`
	}{
		Insights: rec,
		Analysis: insight.Analyze(rec),
		KD:       insight.KDLabel(rec.KD),
		Accuracy: insight.AccuracyLabel(rec.Accuracy),
		Headshot: insight.HeadshotLabel(rec.HeadshotPercent),
	})
}

type collectionInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

func (s *Server) library(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	owned, err := s.Steam.OwnedGames(r.Context(), q.Get("steamId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	collection := q.Get("collection")
	if collection == "" {
		collection = library.CollectionAll
	}
	sortBy := q.Get("sort")
	if sortBy == "" {
		sortBy = library.SortPlaytime
	}

	games, err := library.Select(owned.Games, collection)
	if err != nil {
		writeError(w, r, steam.Invalid("%v", err))
		return
	}

	var cols []collectionInfo
	for _, c := range library.Collections(owned.Games) {
		cols = append(cols, collectionInfo{Key: c.Key, Label: c.Label, Count: len(c.Games)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collections": cols,
		"games":       library.Sort(library.Filter(games, q.Get("q")), sortBy),
	})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	app := state.New(owner, s.Store)
	if err := app.Load(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.Dashboard.Load(r.Context(), app, r.URL.Query().Get("id")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, app.Snapshot())
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	app := state.New(ownerOf(r), s.Store)
	if err := app.Load(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preferencesOf(app))
}

func (s *Server) putPreferences(w http.ResponseWriter, r *http.Request) {
	var req store.Preferences
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, steam.Invalid("decode preferences: %v", err))
		return
	}

	req.Owner = strings.TrimSpace(req.Owner)
	if req.Owner == "" {
		req.Owner = defaultOwner
	}
	if req.SteamID != "" {
		if err := steam.ValidateSteamID(req.SteamID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if req.Theme != "" && !req.Theme.Valid() {
		writeError(w, r, steam.Invalid("unknown theme %q", req.Theme))
		return
	}

	app := state.New(req.Owner, s.Store)
	err := app.Load(r.Context())
	if err == nil && req.SteamID != "" {
		err = app.SetSteamID(r.Context(), req.SteamID)
	}
	if err == nil && req.Theme != "" {
		err = app.SetTheme(r.Context(), req.Theme)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preferencesOf(app))
}

func (s *Server) deletePreferences(w http.ResponseWriter, r *http.Request) {
	owner := strings.TrimSpace(r.URL.Query().Get("owner"))
	if owner == "" {
		writeError(w, r, steam.Invalid("owner required"))
		return
	}

	err := s.Store.Delete(r.Context(), owner)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no preferences for " + owner})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func ownerOf(r *http.Request) string {
	if owner := strings.TrimSpace(r.URL.Query().Get("owner")); owner != "" {
		return owner
	}
	return defaultOwner
}

func preferencesOf(app *state.App) store.Preferences {
	return store.Preferences{Owner: app.Owner(), SteamID: app.SteamID(), Theme: app.Theme()}
}
