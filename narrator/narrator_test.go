package narrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nathoo/edencore/types"
)

func serve(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewHTTPClient(srv.URL)
	c.Timeout = 2 * time.Second
	return c
}

func testRequest() Request {
	return Request{
		Command:      "hack the terminal",
		LocationName: "Recycle Bin",
		LocationX:    4,
		LocationY:    4,
		HP:           80,
		Mana:         60,
		StoryProgress: ProgressSummary{
			CurrentAct: 1,
			TraceLevel: 20,
		},
	}
}

func TestGenerate(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/game/command" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body: %v", err)
		}
		if req.Command != "hack the terminal" {
			t.Errorf("command = %q", req.Command)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"narrative":  "ACCESS GRANTED.",
			"mood":       "mystic",
			"hpChange":   -3,
			"manaChange": -12,
			"intent":     "hack",
			"newItem": map[string]string{
				"name": "Proxy Mask", "icon": "proxy", "description": "Hides you.",
			},
		})
	})

	out, err := c.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Narrative != "ACCESS GRANTED." {
		t.Errorf("narrative = %q", out.Narrative)
	}
	if out.Mood != types.MoodMystic || out.Intent != types.IntentHack {
		t.Errorf("mood/intent = %s/%s", out.Mood, out.Intent)
	}
	if out.HPDelta != -3 || out.ManaDelta != -12 {
		t.Errorf("deltas = %d/%d", out.HPDelta, out.ManaDelta)
	}
	if out.NewItem == nil || out.NewItem.Icon != "proxy" {
		t.Errorf("item = %+v", out.NewItem)
	}
	if out.Source != types.SourceRemote {
		t.Errorf("source = %s", out.Source)
	}
}

func TestGenerateNarrativeSynonyms(t *testing.T) {
	for _, key := range []string{"narrative", "text", "response", "message"} {
		t.Run(key, func(t *testing.T) {
			c := serve(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{key: "a line"})
			})
			out, err := c.Generate(context.Background(), testRequest())
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if out.Narrative != "a line" {
				t.Errorf("narrative = %q", out.Narrative)
			}
		})
	}
}

func TestGenerateClampsDeltas(t *testing.T) {
	cases := []struct {
		name     string
		hp, mana int
		wantHP   int
		wantMana int
	}{
		{"excess damage", -90, -99, HPDeltaMin, ManaDeltaMin},
		{"excess healing", 90, 99, HPDeltaMax, ManaDeltaMax},
		{"in range", -5, 10, -5, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := serve(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"narrative": "x", "hpChange": tc.hp, "manaChange": tc.mana,
				})
			})
			out, err := c.Generate(context.Background(), testRequest())
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if out.HPDelta != tc.wantHP || out.ManaDelta != tc.wantMana {
				t.Errorf("deltas = %d/%d, want %d/%d", out.HPDelta, out.ManaDelta, tc.wantHP, tc.wantMana)
			}
		})
	}
}

func TestGenerateSanitizes(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"narrative": "x",
			"mood":      "ominous",
			"intent":    "dance",
			"newItem":   map[string]string{"name": "Cursed Orb", "icon": "orb"},
		})
	})
	out, err := c.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Mood != types.MoodNeutral {
		t.Errorf("unknown mood became %s, want neutral", out.Mood)
	}
	if out.Intent != types.IntentUnknown {
		t.Errorf("unknown intent became %s", out.Intent)
	}
	if out.NewItem != nil {
		t.Errorf("item with unknown icon kept: %+v", out.NewItem)
	}
}

func TestGenerateErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}},
		{"missing narrative", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]int{"hpChange": -5})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := serve(t, tc.handler)
			if _, err := c.Generate(context.Background(), testRequest()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"narrative": "too late"})
	})
	c.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := c.Generate(context.Background(), testRequest())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("timeout took %s", elapsed)
	}
}

func TestGenerateUnreachable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1")
	c.Timeout = time.Second
	if _, err := c.Generate(context.Background(), testRequest()); err == nil {
		t.Error("expected connection error")
	}
}
