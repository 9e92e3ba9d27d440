package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kasazen/chess-chat/internal/board"
	"github.com/kasazen/chess-chat/internal/coach"
	"github.com/kasazen/chess-chat/internal/httpapi"
	"github.com/kasazen/chess-chat/internal/script"
)

// stubCoach validates the FEN like the real pipeline and returns a fixed script.
type stubCoach struct {
	lastReq coach.Request
}

func (s *stubCoach) Ask(_ context.Context, req coach.Request) (script.ActionScript, error) {
	s.lastReq = req
	if _, err := board.Load(req.FEN); err != nil {
		return script.ActionScript{}, fmt.Errorf("load position: %w", err)
	}
	return script.ActionScript{
		Explanation: "stub answer",
		Sequences:   []script.Sequence{},
		Actions:     []script.Action{script.MoveAction{Notation: "e2e4", Note: "best"}},
	}, nil
}

func newServer(t *testing.T) (*httptest.Server, *stubCoach) {
	t.Helper()
	c := &stubCoach{}
	srv := httptest.NewServer(httpapi.NewRouter(zerolog.Nop(), c))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestAskOK(t *testing.T) {
	srv, c := newServer(t)

	body := `{"fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1","message":"best move?","history":["e4","e5"]}`
	resp, err := http.Post(srv.URL+"/ask", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /ask: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var out struct {
		Explanation string `json:"explanation"`
		Actions     []struct {
			Type     string `json:"type"`
			Notation string `json:"notation"`
			Comment  string `json:"comment"`
		} `json:"actions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Explanation != "stub answer" {
		t.Errorf("explanation = %q", out.Explanation)
	}
	if len(out.Actions) != 1 || out.Actions[0].Notation != "e2e4" {
		t.Errorf("actions = %+v", out.Actions)
	}

	// The handler maps "message" to the pipeline question.
	if c.lastReq.Question != "best move?" {
		t.Errorf("question = %q", c.lastReq.Question)
	}
	if len(c.lastReq.History) != 2 {
		t.Errorf("history = %v", c.lastReq.History)
	}
}

func TestAskMethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/ask")
	if err != nil {
		t.Fatalf("GET /ask: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestAskBadBody(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/ask", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /ask: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAskInvalidFEN(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/ask", "application/json", strings.NewReader(`{"fen":"garbage","message":"?"}`))
	if err != nil {
		t.Fatalf("POST /ask: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAskCORSPreflight(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/ask", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS /ask: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func TestRequestIDEcho(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("X-Request-ID", "abcd1234")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "abcd1234" {
		t.Errorf("X-Request-ID = %q, want the caller's id echoed", got)
	}

	// A malformed caller id is replaced with a minted one.
	req.Header.Set("X-Request-ID", "too-long-to-accept")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); len(got) != 8 || got == "too-long-to-accept" {
		t.Errorf("X-Request-ID = %q, want a minted 8-char id", got)
	}
}

func TestAccessLogFields(t *testing.T) {
	var buf bytes.Buffer
	c := &stubCoach{}
	srv := httptest.NewServer(httpapi.NewRouter(zerolog.New(&buf), c))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ask") // 405
	if err != nil {
		t.Fatalf("GET /ask: %v", err)
	}
	resp.Body.Close()

	logged := buf.String()
	for _, want := range []string{`"status":405`, `"path":"/ask"`, `"method":"GET"`, `"rid":`} {
		if !strings.Contains(logged, want) {
			t.Errorf("access log missing %s: %s", want, logged)
		}
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}
