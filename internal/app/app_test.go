package app

import (
	"bytes"
	"encoding/json"
	"kpi_tracker_backend/internal/config"
	"kpi_tracker_backend/pkg/database"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: "test"},
		Database:  config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		JWT:       config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Cache:     config.CacheConfig{DashboardTTLSeconds: 60, LRUSize: 16},
		RateLimit: config.RateLimitConfig{MaxRequests: 10000, WindowMinutes: 1},
	}
	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	a := NewAppWithDB(cfg, db, nil)
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, a *App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
}

func login(t *testing.T, a *App, email string) string {
	t.Helper()
	code, _ := call(t, a, http.MethodPost, "/api/register", "", map[string]string{
		"name": "User", "email": email, "password": "password123",
	})
	if code != http.StatusCreated {
		t.Fatalf("register %s: %d", email, code)
	}
	code, env := call(t, a, http.MethodPost, "/api/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	if code != http.StatusOK {
		t.Fatalf("login %s: %d", email, code)
	}
	var out struct {
		Token string `json:"token"`
	}
	decode(t, env.Data, &out)
	return out.Token
}

func TestAuthFlow(t *testing.T) {
	is := is.New(t)
	a := newTestApp(t)

	code, _ := call(t, a, http.MethodGet, "/api/health", "", nil)
	is.Equal(code, http.StatusOK)

	token := login(t, a, "alice@example.com")
	is.True(token != "")

	code, _ = call(t, a, http.MethodPost, "/api/register", "", map[string]string{
		"name": "Again", "email": "Alice@Example.com", "password": "password123",
	})
	is.Equal(code, http.StatusConflict)

	code, env := call(t, a, http.MethodPost, "/api/register", "", map[string]string{"email": "not-an-email"})
	is.Equal(code, http.StatusBadRequest)
	is.Equal(env.Errors["Email"], "email")

	code, _ = call(t, a, http.MethodPost, "/api/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	is.Equal(code, http.StatusUnauthorized)

	code, _ = call(t, a, http.MethodGet, "/api/profile", "", nil)
	is.Equal(code, http.StatusUnauthorized)

	code, _ = call(t, a, http.MethodGet, "/api/profile", "garbage", nil)
	is.Equal(code, http.StatusUnauthorized)

	code, env = call(t, a, http.MethodGet, "/api/profile", token, nil)
	is.Equal(code, http.StatusOK)
	var profile struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		TeamID *string `json:"teamId"`
	}
	decode(t, env.Data, &profile)
	is.Equal(profile.User.Email, "alice@example.com")
	is.True(profile.TeamID == nil)
}

func TestTrackingFlow(t *testing.T) {
	is := is.New(t)
	a := newTestApp(t)
	alice := login(t, a, "alice@example.com")
	bob := login(t, a, "bob@example.com")

	code, _ := call(t, a, http.MethodGet, "/api/dashboard", alice, nil)
	is.Equal(code, http.StatusForbidden) // no team yet

	code, _ = call(t, a, http.MethodPost, "/api/teams", alice, map[string]string{"name": "Growth"})
	is.Equal(code, http.StatusCreated)
	code, _ = call(t, a, http.MethodPost, "/api/teams", bob, map[string]string{"name": "Other"})
	is.Equal(code, http.StatusCreated)

	code, env := call(t, a, http.MethodPost, "/api/goals", alice, map[string]interface{}{"title": "Revenue"})
	is.Equal(code, http.StatusBadRequest)
	is.Equal(env.Errors["TargetValue"], "required")

	code, env = call(t, a, http.MethodPost, "/api/goals", alice, map[string]interface{}{
		"title": "Revenue", "targetValue": 100, "unit": "k",
	})
	is.Equal(code, http.StatusCreated)
	var goal struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env.Data, &goal)
	is.Equal(goal.Status, "active")

	code, _ = call(t, a, http.MethodGet, "/api/goals/"+goal.ID, bob, nil)
	is.Equal(code, http.StatusForbidden)
	code, _ = call(t, a, http.MethodGet, "/api/goals/missing", alice, nil)
	is.Equal(code, http.StatusNotFound)

	code, _ = call(t, a, http.MethodPost, "/api/kpis", alice, map[string]interface{}{
		"goalId": goal.ID, "title": "Deals", "targetValue": 10, "unit": "deals", "direction": "sideways", "frequency": "daily",
	})
	is.Equal(code, http.StatusBadRequest)

	code, _ = call(t, a, http.MethodPost, "/api/kpis", bob, map[string]interface{}{
		"goalId": goal.ID, "title": "Deals", "targetValue": 10, "unit": "deals", "direction": "up", "frequency": "daily",
	})
	is.Equal(code, http.StatusForbidden)

	code, env = call(t, a, http.MethodPost, "/api/kpis", alice, map[string]interface{}{
		"goalId": goal.ID, "title": "Deals", "targetValue": 10, "unit": "deals", "direction": "up", "frequency": "daily",
	})
	is.Equal(code, http.StatusCreated)
	var kpi struct {
		ID     string  `json:"id"`
		Weight float64 `json:"weight"`
	}
	decode(t, env.Data, &kpi)
	is.Equal(kpi.Weight, 1.0)

	code, _ = call(t, a, http.MethodGet, "/api/updates", alice, nil)
	is.Equal(code, http.StatusBadRequest)

	code, _ = call(t, a, http.MethodPost, "/api/updates", alice, map[string]interface{}{"kpiId": kpi.ID})
	is.Equal(code, http.StatusBadRequest) // value is required

	code, env = call(t, a, http.MethodPost, "/api/updates", alice, map[string]interface{}{"kpiId": kpi.ID, "value": 5})
	is.Equal(code, http.StatusCreated)
	var update struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &update)

	code, env = call(t, a, http.MethodGet, "/api/dashboard", alice, nil)
	is.Equal(code, http.StatusOK)
	var dash struct {
		Goals []struct {
			Progress int `json:"progress"`
			KPIs     []struct {
				CurrentValue float64 `json:"currentValue"`
				Overdue      bool    `json:"overdue"`
			} `json:"kpis"`
		} `json:"goals"`
		OverdueKPIs  []interface{} `json:"overdueKpis"`
		OverdueCount int           `json:"overdueCount"`
	}
	decode(t, env.Data, &dash)
	is.Equal(len(dash.Goals), 1)
	is.Equal(dash.Goals[0].Progress, 50)
	is.Equal(dash.Goals[0].KPIs[0].CurrentValue, 5.0)
	is.Equal(dash.OverdueCount, 0)
	is.Equal(len(dash.OverdueKPIs), 0)

	code, _ = call(t, a, http.MethodPatch, "/api/updates/"+update.ID, alice, map[string]interface{}{"value": 10})
	is.Equal(code, http.StatusOK)

	code, env = call(t, a, http.MethodGet, "/api/dashboard", alice, nil)
	is.Equal(code, http.StatusOK)
	decode(t, env.Data, &dash)
	is.Equal(dash.Goals[0].Progress, 100) // cache was invalidated by the edit

	code, _ = call(t, a, http.MethodDelete, "/api/updates/"+update.ID, bob, nil)
	is.Equal(code, http.StatusForbidden)

	code, _ = call(t, a, http.MethodPatch, "/api/goals/"+goal.ID, alice, map[string]interface{}{"status": "paused"})
	is.Equal(code, http.StatusBadRequest)

	code, _ = call(t, a, http.MethodDelete, "/api/kpis/"+kpi.ID, alice, nil)
	is.Equal(code, http.StatusOK)
	code, env = call(t, a, http.MethodGet, "/api/kpis/"+kpi.ID, alice, nil)
	is.Equal(code, http.StatusOK)
	var detail struct {
		KPI struct {
			Status string `json:"status"`
		} `json:"kpi"`
		Updates []interface{} `json:"updates"`
	}
	decode(t, env.Data, &detail)
	is.Equal(detail.KPI.Status, "archived")
	is.Equal(len(detail.Updates), 1)

	code, _ = call(t, a, http.MethodDelete, "/api/goals/"+goal.ID, alice, nil)
	is.Equal(code, http.StatusOK)
	code, env = call(t, a, http.MethodGet, "/api/goals?status=archived", alice, nil)
	is.Equal(code, http.StatusOK)
	var archived []interface{}
	decode(t, env.Data, &archived)
	is.Equal(len(archived), 1)
}

func TestTeamMembersEndpoint(t *testing.T) {
	is := is.New(t)
	a := newTestApp(t)
	owner := login(t, a, "owner@example.com")
	member := login(t, a, "member@example.com")

	code, _ := call(t, a, http.MethodPost, "/api/teams", owner, map[string]string{"name": "Core"})
	is.Equal(code, http.StatusCreated)

	code, _ = call(t, a, http.MethodPost, "/api/team/members", owner, map[string]string{"email": "ghost@example.com"})
	is.Equal(code, http.StatusNotFound)

	code, _ = call(t, a, http.MethodPost, "/api/team/members", owner, map[string]string{"email": "member@example.com"})
	is.Equal(code, http.StatusCreated)

	code, _ = call(t, a, http.MethodPost, "/api/team/members", owner, map[string]string{"email": "member@example.com"})
	is.Equal(code, http.StatusConflict)

	code, _ = call(t, a, http.MethodPost, "/api/team/members", member, map[string]string{"email": "owner@example.com"})
	is.Equal(code, http.StatusForbidden)

	code, env := call(t, a, http.MethodGet, "/api/team", member, nil)
	is.Equal(code, http.StatusOK)
	var team struct {
		Members []struct {
			Role string `json:"role"`
		} `json:"members"`
	}
	decode(t, env.Data, &team)
	is.Equal(len(team.Members), 2)
}

func TestAvatarUpload(t *testing.T) {
	is := is.New(t)
	a := newTestApp(t)
	token := login(t, a, "alice@example.com")

	upload := func(name string, content []byte) (int, envelope) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", name)
		is.NoErr(err)
		_, err = part.Write(content)
		is.NoErr(err)
		is.NoErr(mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/user/avatar/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		a.Router.ServeHTTP(w, req)

		var env envelope
		is.NoErr(json.Unmarshal(w.Body.Bytes(), &env))
		return w.Code, env
	}

	code, _ := upload("notes.txt", []byte("plain text is not an image"))
	is.Equal(code, http.StatusBadRequest)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	code, env := upload("me.png", png)
	is.Equal(code, http.StatusOK)
	var out struct {
		AvatarURL string `json:"avatarUrl"`
	}
	decode(t, env.Data, &out)
	is.True(strings.HasPrefix(out.AvatarURL, "/uploads/avatars/"))
	is.True(strings.HasSuffix(out.AvatarURL, ".png"))

	code, env = call(t, a, http.MethodGet, "/api/profile", token, nil)
	is.Equal(code, http.StatusOK)
	var profile struct {
		User struct {
			AvatarURL string `json:"avatarUrl"`
		} `json:"user"`
	}
	decode(t, env.Data, &profile)
	is.Equal(profile.User.AvatarURL, out.AvatarURL)
}
