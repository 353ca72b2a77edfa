package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/steamx/internal/shared"
)

var testCreds = Credentials{APIKey: "key", SteamID: "76561198000000000"}

// fakeSteam serves canned bodies per endpoint path.
type fakeSteam struct {
	mu     sync.Mutex
	status map[string]int
	body   map[string]string
	hits   map[string]int
	langs  []string
}

func newFakeSteam() *fakeSteam {
	return &fakeSteam{status: map[string]int{}, body: map[string]string{}, hits: map[string]int{}}
}

func (f *fakeSteam) set(path string, status int, body string) {
	f.status[path] = status
	f.body[path] = body
}

func (f *fakeSteam) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeSteam) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.hits[r.URL.Path]++
	if r.URL.Path == schemaForGamePath {
		f.langs = append(f.langs, r.URL.Query().Get("l"))
	}

	status, ok := f.status[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(status)
	w.Write([]byte(f.body[r.URL.Path]))
}

func newTestSteamService(t *testing.T, fake *fakeSteam, language string) *SteamService {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return NewSteamService(NewAPIService(server.URL, nil), language)
}

func TestOwnedGames(t *testing.T) {
	t.Run("maps games and names unnamed ones", func(t *testing.T) {
		fake := newFakeSteam()
		fake.set(ownedGamesPath, http.StatusOK, `{"response":{"game_count":3,"games":[
			{"appid":440,"name":"Team Fortress 2"},
			{"appid":12345,"name":""},
			{"appid":620,"name":"Portal 2"}
		]}}`)
		svc := newTestSteamService(t, fake, "")

		games, err := svc.OwnedGames(context.Background(), testCreds)
		if err != nil {
			t.Fatalf("OwnedGames() error = %v", err)
		}

		names := map[int]string{}
		for _, g := range games {
			names[g.AppID] = g.Name
		}
		if len(names) != 3 {
			t.Fatalf("expected 3 games, got %d", len(names))
		}
		if names[12345] != "AppID 12345" {
			t.Errorf("expected fallback name, got %q", names[12345])
		}
		if names[440] != "Team Fortress 2" {
			t.Errorf("expected Team Fortress 2, got %q", names[440])
		}
	})

	t.Run("sends library query parameters", func(t *testing.T) {
		var got map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			got = map[string]string{}
			for _, k := range []string{"key", "steamid", "include_appinfo", "include_played_free_games"} {
				got[k] = q.Get(k)
			}
			w.Write([]byte(`{"response":{}}`))
		}))
		defer server.Close()

		svc := NewSteamService(NewAPIService(server.URL, nil), "")
		if _, err := svc.OwnedGames(context.Background(), testCreds); err != nil {
			t.Fatalf("OwnedGames() error = %v", err)
		}

		want := map[string]string{
			"key": "key", "steamid": testCreds.SteamID, "include_appinfo": "1", "include_played_free_games": "1",
		}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("param %s = %q, want %q", k, got[k], v)
			}
		}
	})

	t.Run("private profile yields empty list", func(t *testing.T) {
		fake := newFakeSteam()
		fake.set(ownedGamesPath, http.StatusOK, `{"response":{}}`)

		games, err := newTestSteamService(t, fake, "").OwnedGames(context.Background(), testCreds)
		if err != nil {
			t.Fatalf("OwnedGames() error = %v", err)
		}
		if len(games) != 0 {
			t.Errorf("expected no games, got %v", games)
		}
	})

	t.Run("empty credentials fail without a request", func(t *testing.T) {
		fake := newFakeSteam()
		svc := newTestSteamService(t, fake, "")

		_, err := svc.OwnedGames(context.Background(), Credentials{APIKey: "key"})
		if !errors.Is(err, shared.ErrAuth) {
			t.Errorf("expected ErrAuth, got %v", err)
		}
		if fake.hitCount(ownedGamesPath) != 0 {
			t.Error("no request should be made without credentials")
		}
	})

	tc := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: "<html>401</html>", want: shared.ErrAuth},
		{name: "forbidden", status: http.StatusForbidden, body: "<html>403</html>", want: shared.ErrAuth},
		{name: "rate limited", status: http.StatusTooManyRequests, body: "", want: shared.ErrTransport},
		{name: "server error", status: http.StatusInternalServerError, body: "", want: shared.ErrTransport},
		{name: "bad request", status: http.StatusBadRequest, body: `{}`, want: shared.ErrTransport},
		{name: "not json", status: http.StatusOK, body: "<html>maintenance</html>", want: shared.ErrProtocol},
		{name: "missing response object", status: http.StatusOK, body: `{"foo":1}`, want: shared.ErrProtocol},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSteam()
			fake.set(ownedGamesPath, tt.status, tt.body)

			_, err := newTestSteamService(t, fake, "").OwnedGames(context.Background(), testCreds)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("timeout is a transport error", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		svc := NewSteamService(NewAPIService(server.URL, &http.Client{Timeout: 20 * time.Millisecond}), "")
		_, err := svc.OwnedGames(context.Background(), testCreds)
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

const (
	statsOK = `{"playerstats":{"steamID":"1","gameName":"Portal","achievements":[
		{"apiname":"PORTAL_1","achieved":1,"unlocktime":1300000000},
		{"apiname":"PORTAL_2","achieved":0,"unlocktime":0}
	],"success":true}}`
	schemaOK = `{"game":{"gameName":"ポータル","gameVersion":"1","availableGameStats":{"achievements":[
		{"name":"PORTAL_1","displayName":"Lab Rat","description":"Complete the tests","hidden":0},
		{"name":"PORTAL_2","displayName":"Fratricide","description":"","hidden":1},
		{"name":"PORTAL_3","displayName":"Partygoer","description":"Reach the end","hidden":0}
	]}}}`
)

func TestFetchAchievements(t *testing.T) {
	t.Run("joins schema with player status", func(t *testing.T) {
		fake := newFakeSteam()
		fake.set(playerAchievementsPath, http.StatusOK, statsOK)
		fake.set(schemaForGamePath, http.StatusOK, schemaOK)
		svc := newTestSteamService(t, fake, "japanese")

		res := svc.FetchAchievements(context.Background(), testCreds, 400)
		if res.Status != FetchOK {
			t.Fatalf("expected FetchOK, got %v (%v %s)", res.Status, res.Err, res.Reason)
		}
		if res.Data.DisplayName != "ポータル" {
			t.Errorf("expected localized name, got %q", res.Data.DisplayName)
		}
		if len(res.Data.Definitions) != 3 {
			t.Fatalf("expected 3 definitions, got %d", len(res.Data.Definitions))
		}

		achieved := []string{}
		for k, v := range res.Data.Achieved {
			if v {
				achieved = append(achieved, k)
			}
		}
		sort.Strings(achieved)
		if len(achieved) != 1 || achieved[0] != "PORTAL_1" {
			t.Errorf("expected only PORTAL_1 achieved, got %v", achieved)
		}
		if _, ok := res.Data.Achieved["PORTAL_3"]; ok {
			t.Error("PORTAL_3 has no status entry and should be absent from the map")
		}

		fake.mu.Lock()
		defer fake.mu.Unlock()
		if len(fake.langs) != 1 || fake.langs[0] != "japanese" {
			t.Errorf("expected schema language japanese, got %v", fake.langs)
		}
	})

	t.Run("game without stats is no data", func(t *testing.T) {
		fake := newFakeSteam()
		fake.set(playerAchievementsPath, http.StatusBadRequest,
			`{"playerstats":{"error":"Requested app has no stats","success":false}}`)
		svc := newTestSteamService(t, fake, "")

		res := svc.FetchAchievements(context.Background(), testCreds, 4000)
		if res.Status != FetchNoData {
			t.Fatalf("expected FetchNoData, got %v (%v)", res.Status, res.Err)
		}
		if res.Reason != "Requested app has no stats" {
			t.Errorf("expected Steam's reason, got %q", res.Reason)
		}
		if fake.hitCount(schemaForGamePath) != 0 {
			t.Error("schema should not be requested when player stats are missing")
		}
	})

	t.Run("schema without achievements is no data", func(t *testing.T) {
		fake := newFakeSteam()
		fake.set(playerAchievementsPath, http.StatusOK, statsOK)
		fake.set(schemaForGamePath, http.StatusOK, `{"game":{"gameName":"X","availableGameStats":{}}}`)

		res := newTestSteamService(t, fake, "").FetchAchievements(context.Background(), testCreds, 1)
		if res.Status != FetchNoData {
			t.Errorf("expected FetchNoData, got %v", res.Status)
		}
	})

	t.Run("empty schema display name is kept empty", func(t *testing.T) {
		fake := newFakeSteam()
		fake.set(playerAchievementsPath, http.StatusOK, statsOK)
		fake.set(schemaForGamePath, http.StatusOK,
			`{"game":{"availableGameStats":{"achievements":[{"name":"PORTAL_1","displayName":"Lab Rat"}]}}}`)

		res := newTestSteamService(t, fake, "").FetchAchievements(context.Background(), testCreds, 1)
		if res.Status != FetchOK {
			t.Fatalf("expected FetchOK, got %v", res.Status)
		}
		if res.Data.DisplayName != "" {
			t.Errorf("expected empty display name, got %q", res.Data.DisplayName)
		}
	})

	tc := []struct {
		name       string
		path       string
		status     int
		body       string
		wantStatus FetchStatus
		wantErr    error
	}{
		{name: "stats unauthorized", path: playerAchievementsPath, status: http.StatusForbidden, body: "<html/>", wantStatus: FetchFailed, wantErr: shared.ErrAuth},
		{name: "stats rate limited", path: playerAchievementsPath, status: http.StatusTooManyRequests, body: "", wantStatus: FetchFailed, wantErr: shared.ErrTransport},
		{name: "stats server error", path: playerAchievementsPath, status: http.StatusBadGateway, body: "", wantStatus: FetchFailed, wantErr: shared.ErrTransport},
		{name: "stats 4xx html", path: playerAchievementsPath, status: http.StatusNotFound, body: "<html/>", wantStatus: FetchFailed, wantErr: shared.ErrTransport},
		{name: "stats 2xx html", path: playerAchievementsPath, status: http.StatusOK, body: "<html/>", wantStatus: FetchNoData},
		{name: "schema unauthorized", path: schemaForGamePath, status: http.StatusUnauthorized, body: "", wantStatus: FetchFailed, wantErr: shared.ErrAuth},
		{name: "schema server error", path: schemaForGamePath, status: http.StatusServiceUnavailable, body: "", wantStatus: FetchFailed, wantErr: shared.ErrTransport},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSteam()
			fake.set(playerAchievementsPath, http.StatusOK, statsOK)
			fake.set(schemaForGamePath, http.StatusOK, schemaOK)
			fake.set(tt.path, tt.status, tt.body)

			res := newTestSteamService(t, fake, "").FetchAchievements(context.Background(), testCreds, 400)
			if res.Status != tt.wantStatus {
				t.Fatalf("expected %v, got %v (%v)", tt.wantStatus, res.Status, res.Err)
			}
			if tt.wantErr != nil && !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, res.Err)
			}
		})
	}

	t.Run("network error is a transport failure", func(t *testing.T) {
		client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})}
		svc := NewSteamService(NewAPIService("http://steam.invalid", client), "")

		res := svc.FetchAchievements(context.Background(), testCreds, 1)
		if res.Status != FetchFailed || !errors.Is(res.Err, shared.ErrTransport) {
			t.Errorf("expected transport failure, got %v %v", res.Status, res.Err)
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		res := NewSteamService(nil, "").FetchAchievements(context.Background(), Credentials{}, 1)
		if res.Status != FetchFailed || !errors.Is(res.Err, shared.ErrAuth) {
			t.Errorf("expected auth failure, got %v %v", res.Status, res.Err)
		}
	})
}
