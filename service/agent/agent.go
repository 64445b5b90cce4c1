package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"imarket.GO/catalog"
)

// ScriptFile is the agent's response script resource.
const ScriptFile = "online-agent.json"

// Script is the chat agent's keyword/response table, loaded from
// online-agent.json.
type Script struct {
	DefaultResponse string            `json:"default_response"`
	Responses       map[string]string `json:"responses"`
}

// Agent answers chat messages by keyword containment. It is a scripted
// responder, not a language model; the first matching keyword wins.
type Agent struct {
	script Script
	order  []string
}

// Load reads the script through the given fetcher.
func Load(ctx context.Context, fetcher catalog.Fetcher) (*Agent, error) {
	data, err := fetcher.Fetch(ctx, ScriptFile)
	if err != nil {
		return nil, fmt.Errorf("load agent script: %w", err)
	}
	var script Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("decode agent script: %w", err)
	}
	return New(script), nil
}

// New builds an agent from an in-memory script.
func New(script Script) *Agent {
	a := &Agent{script: script}
	for k := range script.Responses {
		a.order = append(a.order, k)
	}
	// Longer keywords first so "delivery time" wins over "delivery".
	// Ties break lexicographically so replies do not depend on map order.
	sort.Slice(a.order, func(i, j int) bool {
		if len(a.order[i]) != len(a.order[j]) {
			return len(a.order[i]) > len(a.order[j])
		}
		return a.order[i] < a.order[j]
	})
	return a
}

// Reply returns the scripted response for a message, or the default
// response when no keyword matches.
func (a *Agent) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, keyword := range a.order {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return a.script.Responses[keyword]
		}
	}
	return a.script.DefaultResponse
}
