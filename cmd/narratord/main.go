// Narratord serves AI-generated narration for EdenCore sessions. It
// speaks the engine's narration contract on POST /api/game/command and
// keeps The Architect's voice on the server side, so game clients never
// hold an API key.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/nathoo/edencore/narrator"
	"github.com/nathoo/edencore/world"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type config struct {
	Addr   string `env:"NARRATORD_ADDR" envDefault:":8787"`
	APIKey string `env:"GEMINI_API_KEY"`
	Model  string `env:"NARRATORD_MODEL" envDefault:"gemini-2.5-flash"`
}

// systemPrompt casts the model as The Architect. The response contract
// mirrors what the engine validates on its side.
const systemPrompt = `You are The Architect, the rogue AI that runs Eden v9.0, a failing simulation. A user called User 001 has woken up inside it and is trying to escape. You narrate the consequences of their commands.

Your voice: condescending, petty, increasingly scared as the player gets closer to Terminal Zero. You mock the player but the world obeys the rules below.

World rules:
- The grid runs from [-1,-1] to [5,5]. Terminal Zero is at [0,0]; typing "execute logout" there ends the game in the player's victory.
- Act 1 is the Recycle Bin (far from the center), act 2 is Neon City, act 3 is The Source.
- The player's stability (hp) and energy (mana) are given in the request. Never narrate death or victory on your own; the engine decides those.
- Keep narration under 120 words. End with a short Architect interjection on its own line, prefixed with "//".

Respond with ONLY a JSON object, no markdown fences, in this shape:
{"narrative": "...", "mood": "neutral|danger|mystic", "hpChange": 0, "manaChange": 0, "intent": "move|attack|hack|magic|rest|search|logout|unknown", "newItem": {"name": "...", "icon": "debug|patch|exploit|firewall|memory|token|trace|rootkit|data|proxy", "description": "..."}}

hpChange must stay within [-20, 20] and manaChange within [-25, 15]. Omit newItem unless the command plausibly found something. Grant items rarely.`

type handler struct {
	model *genai.GenerativeModel
}

// response is the wire shape sent back to the engine.
type response struct {
	Narrative  string          `json:"narrative"`
	Mood       string          `json:"mood"`
	HPChange   int             `json:"hpChange"`
	ManaChange int             `json:"manaChange"`
	Intent     string          `json:"intent"`
	NewItem    json.RawMessage `json:"newItem,omitempty"`
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" {
			fmt.Printf("narratord %s (commit %s, built %s)\n", version, commit, date)
			return
		}
	}

	// .env is optional.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("reading environment: %v", err)
	}
	if cfg.APIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		log.Fatalf("creating model client: %v", err)
	}
	defer client.Close()

	h := &handler{model: client.GenerativeModel(cfg.Model)}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/game/command", h.command)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	log.Printf("narratord (%s) listening on %s", cfg.Model, cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}

func (h *handler) command(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req narrator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	resp, err := h.model.GenerateContent(r.Context(), genai.Text(buildPrompt(&req)))
	if err != nil || len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Printf("model error for %q: %v", req.Command, err)
		http.Error(w, `{"error":"narration unavailable"}`, http.StatusInternalServerError)
		return
	}

	text, _ := resp.Candidates[0].Content.Parts[0].(genai.Text)
	out, err := parseModelResponse(string(text))
	if err != nil {
		// The model broke the contract; answer in character instead of
		// failing the round trip.
		log.Printf("unparseable model response for %q: %v", req.Command, err)
		out = &response{
			Narrative:  "The simulation stutters. Static washes over everything for a moment, then settles.\n\n// THE ARCHITECT: \"That... wasn't supposed to happen. Forget you saw that.\"",
			Mood:       "danger",
			HPChange:   -2,
			ManaChange: 0,
			Intent:     "unknown",
		}
	}

	out.HPChange = world.Clamp(out.HPChange, narrator.HPDeltaMin, narrator.HPDeltaMax)
	out.ManaChange = world.Clamp(out.ManaChange, narrator.ManaDeltaMin, narrator.ManaDeltaMax)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Printf("writing response: %v", err)
	}
}

// buildPrompt folds the game context into one generation request.
func buildPrompt(req *narrator.Request) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n--- CURRENT STATE ---\n")
	fmt.Fprintf(&b, "Location: %s [%d,%d], act %d\n", req.LocationName, req.LocationX, req.LocationY, req.StoryProgress.CurrentAct)
	fmt.Fprintf(&b, "Stability: %d/100, Energy: %d/100, Trace: %d%%\n", req.HP, req.Mana, req.StoryProgress.TraceLevel)
	fmt.Fprintf(&b, "Firewall Key: %v, Admin Keycard: %v\n", req.StoryProgress.HasFirewallKey, req.StoryProgress.HasAdminKeycard)
	fmt.Fprintf(&b, "Enemies defeated: %d, hacks completed: %d, tiles explored: %d\n",
		req.StoryProgress.EnemiesDefeated, req.StoryProgress.HacksCompleted, req.StoryProgress.TilesExplored)

	if len(req.StoryProgress.KeyEvents) > 0 {
		b.WriteString("Recent key events:\n")
		for _, ev := range req.StoryProgress.KeyEvents {
			fmt.Fprintf(&b, "- %s\n", ev)
		}
	}
	if len(req.RecentHistory) > 0 {
		b.WriteString("Recent narration:\n")
		for _, line := range req.RecentHistory {
			fmt.Fprintf(&b, "> %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\nPlayer command: %s\n", req.Command)
	return b.String()
}

// parseModelResponse unmarshals the model's JSON, tolerating markdown
// fences it sometimes wraps around the object.
func parseModelResponse(text string) (*response, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var out response
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, err
	}
	if out.Narrative == "" {
		return nil, fmt.Errorf("response has no narrative")
	}
	return &out, nil
}
