package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkeye/Agora/internal/adapters/signal"
	"github.com/dkeye/Agora/internal/config"
	"github.com/dkeye/Agora/internal/domain"
	"github.com/gin-gonic/gin"
)

type stubRooms struct {
	rooms []domain.Room
}

func (s stubRooms) Rooms() []domain.Room { return s.rooms }

func (s stubRooms) Room(id domain.RoomID) (domain.Room, bool) {
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Room{}, false
}

func newTestRouter(rooms stubRooms) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Mode: "test", StaticPath: "./web", Secret: "test-secret"}
	hub := signal.NewHub(nil)
	ctl := signal.NewSignalWSController(hub, nil, nil, signal.Options{})
	return SetupRouter(context.Background(), cfg, rooms, ctl)
}

func TestListRooms(t *testing.T) {
	owner := domain.Attendee{ID: "a", Username: "ana", IsSpeaker: true}
	r := newTestRouter(stubRooms{rooms: []domain.Room{{
		ID:                "r1",
		Topic:             "go",
		Owner:             owner,
		FeaturedAttendees: []domain.Attendee{owner},
		SpeakersCount:     1,
		AttendeesCount:    1,
		Members:           []domain.Attendee{owner},
	}}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Rooms []map[string]any `json:"rooms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Rooms) != 1 || body.Rooms[0]["id"] != "r1" {
		t.Fatalf("unexpected rooms %+v", body.Rooms)
	}
	if _, leaked := body.Rooms[0]["Members"]; leaked {
		t.Fatalf("lobby must not carry the member list")
	}
}

func TestGetRoom(t *testing.T) {
	owner := domain.Attendee{ID: "a"}
	r := newTestRouter(stubRooms{rooms: []domain.Room{{ID: "r1", Owner: owner, Members: []domain.Attendee{owner}}}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/r1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Members []domain.Attendee `json:"members"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Members) != 1 || body.Members[0].ID != "a" {
		t.Fatalf("unexpected members %+v", body.Members)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestLoginStoresProfile(t *testing.T) {
	r := newTestRouter(stubRooms{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"ana","img":"ana.png"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	me := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	for _, c := range w.Result().Cookies() {
		me.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, me)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var p domain.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Username != "ana" || p.ImageURL != "ana.png" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestLoginRejectsBadUsername(t *testing.T) {
	r := newTestRouter(stubRooms{})
	for _, body := range []string{`{"username":""}`, `{"username":"` + strings.Repeat("x", domain.MaxUsernameLen+1) + `"}`, `nope`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestMeWithoutLogin(t *testing.T) {
	r := newTestRouter(stubRooms{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestClientTokenCookie(t *testing.T) {
	r := newTestRouter(stubRooms{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "ct" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("client token cookie not set")
	}
}
