// Package usage totals upstream token consumption per model.
package usage

import (
	"sort"
	"sync"

	"github.com/viant/divinity/genai/llm"
)

// Stat accumulates token numbers for a single model.
type Stat struct {
	Streams          int `json:"streams"`
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Aggregator collects usage grouped by model name. The zero value is ready to use.
type Aggregator struct {
	mux      sync.RWMutex
	perModel map[string]*Stat
}

// OnUsage matches base.UsageListener so the aggregator can be handed to
// provider clients directly.
func (a *Aggregator) OnUsage(model string, u *llm.Usage) {
	if u == nil {
		return
	}
	total := u.TotalTokens
	if total == 0 {
		total = u.PromptTokens + u.CompletionTokens
	}
	a.mux.Lock()
	defer a.mux.Unlock()
	if a.perModel == nil {
		a.perModel = map[string]*Stat{}
	}
	stat, ok := a.perModel[model]
	if !ok {
		stat = &Stat{}
		a.perModel[model] = stat
	}
	stat.Streams++
	stat.PromptTokens += u.PromptTokens
	stat.CompletionTokens += u.CompletionTokens
	stat.TotalTokens += total
}

// Snapshot returns a copy of the per-model totals.
func (a *Aggregator) Snapshot() map[string]Stat {
	a.mux.RLock()
	defer a.mux.RUnlock()
	result := make(map[string]Stat, len(a.perModel))
	for model, stat := range a.perModel {
		result[model] = *stat
	}
	return result
}

// Totals returns accumulated prompt and completion tokens across all models.
func (a *Aggregator) Totals() (prompt, completion int) {
	a.mux.RLock()
	defer a.mux.RUnlock()
	for _, stat := range a.perModel {
		prompt += stat.PromptTokens
		completion += stat.CompletionTokens
	}
	return prompt, completion
}

// Keys returns sorted list of model names.
func (a *Aggregator) Keys() []string {
	a.mux.RLock()
	defer a.mux.RUnlock()
	keys := make([]string, 0, len(a.perModel))
	for k := range a.perModel {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
