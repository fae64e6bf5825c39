// Package narrator connects the engine to a remote narration service.
// Responses are untrusted: everything is validated and clamped before it
// becomes an Outcome, and any transport or contract failure surfaces as an
// error so the engine can fall back to local resolution.
package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nathoo/edencore/types"
	"github.com/nathoo/edencore/world"
)

// DefaultTimeout bounds a narration round trip.
const DefaultTimeout = 30 * time.Second

// commandPath is the narration endpoint on the service.
const commandPath = "/api/game/command"

// Delta clamps. A remote response can never swing vitals further than
// this in one step.
const (
	HPDeltaMin   = -20
	HPDeltaMax   = 20
	ManaDeltaMin = -25
	ManaDeltaMax = 15
)

// validIcons is the closed set of item category tags the engine accepts
// from a remote response. Anything else drops the item.
var validIcons = map[string]bool{
	"debug": true, "patch": true, "exploit": true, "firewall": true,
	"memory": true, "token": true, "trace": true, "rootkit": true,
	"data": true, "proxy": true,
}

// ProgressSummary is the story context sent with each request.
type ProgressSummary struct {
	CurrentAct      int      `json:"currentAct"`
	HasFirewallKey  bool     `json:"hasFirewallKey"`
	HasAdminKeycard bool     `json:"hasAdminKeycard"`
	EnemiesDefeated int      `json:"enemiesDefeated"`
	HacksCompleted  int      `json:"hacksCompleted"`
	TilesExplored   int      `json:"tilesExplored"`
	TraceLevel      int      `json:"traceLevel"`
	KeyEvents       []string `json:"keyEvents"`
}

// Request is the narration request payload.
type Request struct {
	Command       string          `json:"command"`
	LocationName  string          `json:"locationName"`
	LocationX     int             `json:"locationX"`
	LocationY     int             `json:"locationY"`
	HP            int             `json:"hp"`
	Mana          int             `json:"mana"`
	RecentHistory []string        `json:"recentHistory"`
	StoryProgress ProgressSummary `json:"storyProgress"`
}

// rawResponse accepts the loose shapes narration services produce. The
// narrative may arrive under several keys; first non-empty wins.
type rawResponse struct {
	Narrative string `json:"narrative"`
	Text      string `json:"text"`
	Response  string `json:"response"`
	Message   string `json:"message"`

	Mood       string   `json:"mood"`
	HPChange   int      `json:"hpChange"`
	ManaChange int      `json:"manaChange"`
	Intent     string   `json:"intent"`
	Victory    bool     `json:"victory"`
	NewItem    *rawItem `json:"newItem"`
}

type rawItem struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Client produces an outcome for a command, or an error if the remote
// path is unavailable.
type Client interface {
	Generate(ctx context.Context, req Request) (types.Outcome, error)
}

// HTTPClient talks to a narration service over HTTP.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
	Log     *log.Logger
}

// NewHTTPClient creates a client for a narration service base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Client:  &http.Client{},
		Timeout: DefaultTimeout,
	}
}

// Generate posts the request and validates the response into an Outcome.
func (c *HTTPClient) Generate(ctx context.Context, req Request) (types.Outcome, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("encoding narration request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+commandPath, bytes.NewReader(body))
	if err != nil {
		return types.Outcome{}, fmt.Errorf("building narration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return types.Outcome{}, fmt.Errorf("narration request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Outcome{}, fmt.Errorf("narration service returned %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return types.Outcome{}, fmt.Errorf("reading narration response: %w", err)
	}

	var rr rawResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return types.Outcome{}, fmt.Errorf("malformed narration response: %w", err)
	}
	out, err := validate(&rr)
	if err != nil {
		return types.Outcome{}, err
	}
	if c.Log != nil {
		c.Log.Printf("narrator: %s intent=%s hp=%+d mana=%+d", req.Command, out.Intent, out.HPDelta, out.ManaDelta)
	}
	return out, nil
}

// validate reduces a raw response to a clamped Outcome. A missing
// narrative is a contract failure; everything else degrades gracefully.
func validate(rr *rawResponse) (types.Outcome, error) {
	narrative := firstNonEmpty(rr.Narrative, rr.Text, rr.Response, rr.Message)
	if narrative == "" {
		return types.Outcome{}, fmt.Errorf("narration response has no narrative")
	}

	mood := types.Mood(rr.Mood)
	if !types.ValidMood(mood) {
		mood = types.MoodNeutral
	}
	intent := types.IntentKind(rr.Intent)
	if !types.ValidIntent(intent) {
		intent = types.IntentUnknown
	}

	out := types.Outcome{
		Narrative: narrative,
		Mood:      mood,
		HPDelta:   world.Clamp(rr.HPChange, HPDeltaMin, HPDeltaMax),
		ManaDelta: world.Clamp(rr.ManaChange, ManaDeltaMin, ManaDeltaMax),
		Victory:   rr.Victory,
		Intent:    intent,
		Source:    types.SourceRemote,
	}

	if rr.NewItem != nil && rr.NewItem.Name != "" && validIcons[rr.NewItem.Icon] {
		out.NewItem = &types.Item{
			Name:        rr.NewItem.Name,
			Icon:        rr.NewItem.Icon,
			Description: rr.NewItem.Description,
		}
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
