package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sngm3741/interview-assist/api/internal/admin/application"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingGateway struct {
	mu       sync.Mutex
	requests []map[string]string
	// failFor は失敗させる destination。
	failFor map[string]bool
}

func (g *recordingGateway) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		g.mu.Lock()
		g.requests = append(g.requests, body)
		g.mu.Unlock()
		if g.failFor[body["destination"]] {
			http.Error(w, "gateway down", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}

func (g *recordingGateway) count(destination string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, req := range g.requests {
		if req["destination"] == destination {
			n++
		}
	}
	return n
}

func (g *recordingGateway) first() map[string]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		return nil
	}
	return g.requests[0]
}

type memoryFailures struct {
	saved []Failure
}

func (m *memoryFailures) SaveFailure(_ context.Context, failure Failure) error {
	m.saved = append(m.saved, failure)
	return nil
}

func newTestNotifier(srv *httptest.Server, failures FailureStore) *Notifier {
	return New(Config{
		GatewayURL:         srv.URL + "/",
		DiscordDestination: "discord-admin",
		SlackDestination:   "slack-admin",
		HTTPClient:         srv.Client(),
		Failures:           failures,
	})
}

func TestNotifyImportDiscordSuccess(t *testing.T) {
	gw := &recordingGateway{}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	failures := &memoryFailures{}
	n := newTestNotifier(srv, failures)
	n.NotifyImport(context.Background(), ImportSummary{
		Actor:    "alice",
		FileName: "questions.xlsx",
		Result:   application.ImportResult{Inserted: 2, Deactivated: 1},
	})

	if got := gw.count("discord-admin"); got != 1 {
		t.Fatalf("discord requests = %d, want 1", got)
	}
	if got := gw.count("slack-admin"); got != 0 {
		t.Fatalf("slack should not be used when discord succeeds, got %d", got)
	}
	first := gw.first()
	text := first["text"]
	if !strings.Contains(text, "追加: 2 / 更新: 0 / 無効化: 1") || !strings.Contains(text, "questions.xlsx") {
		t.Fatalf("unexpected message: %q", text)
	}
	if first["userId"] != "alice" {
		t.Fatalf("userId = %q", first["userId"])
	}
	if len(failures.saved) != 0 {
		t.Fatalf("no failure expected, got %+v", failures.saved)
	}
}

func TestNotifyImportFallsBackToSlack(t *testing.T) {
	gw := &recordingGateway{failFor: map[string]bool{"discord-admin": true}}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	failures := &memoryFailures{}
	n := newTestNotifier(srv, failures)
	n.NotifyImport(context.Background(), ImportSummary{Result: application.ImportResult{Inserted: 1}})

	if got := gw.count("discord-admin"); got != discordAttempts {
		t.Fatalf("discord attempts = %d, want %d", got, discordAttempts)
	}
	if got := gw.count("slack-admin"); got != 1 {
		t.Fatalf("slack requests = %d, want 1", got)
	}
	if len(failures.saved) != 0 {
		t.Fatalf("slack succeeded, no failure expected")
	}
}

func TestNotifyImportPersistsFailure(t *testing.T) {
	gw := &recordingGateway{failFor: map[string]bool{"discord-admin": true, "slack-admin": true}}
	srv := httptest.NewServer(gw.handler(t))
	defer srv.Close()

	failures := &memoryFailures{}
	n := newTestNotifier(srv, failures)
	n.NotifyImport(context.Background(), ImportSummary{
		Actor: "bob",
		Err:   errors.New("row 3: import batch commit failed"),
	})

	if len(failures.saved) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures.saved))
	}
	f := failures.saved[0]
	if f.Target != "import_summary" || f.Attempts != discordAttempts+1 {
		t.Fatalf("unexpected failure record: %+v", f)
	}
	if f.Payload["identifier"] != "bob" || f.Payload["importError"] == "" {
		t.Fatalf("unexpected payload: %+v", f.Payload)
	}
	if !strings.Contains(f.Error, "status=502") {
		t.Fatalf("error should carry gateway status: %q", f.Error)
	}
}

func TestNotifierDisabledWithoutDestinations(t *testing.T) {
	n := New(Config{GatewayURL: "http://gateway.invalid"})
	if n.Enabled() {
		t.Fatalf("notifier without destinations must be disabled")
	}
	// 送信先がなければ HTTP を呼ばずに戻る。
	n.NotifyImport(context.Background(), ImportSummary{})

	var nilNotifier *Notifier
	if nilNotifier.Enabled() {
		t.Fatalf("nil notifier must be disabled")
	}
}
