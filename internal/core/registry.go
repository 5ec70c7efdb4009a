package core

import (
	"fmt"
	"sort"
	"sync"
)

// Profile describes how one spreadsheet export names its columns.
// Each field lists header aliases in priority order; the first alias present
// in the sheet with a non-blank cell wins.
type Profile struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	DefaultGame string `json:"default_game,omitempty"`

	Game      []string `json:"game"`
	Set       []string `json:"set"`
	Name      []string `json:"name"`
	Number    []string `json:"number"`
	Condition []string `json:"condition"`
	Finish    []string `json:"finish"`
	Price     []string `json:"price"`
	Quantity  []string `json:"quantity"`
	Location  []string `json:"location"`
	Image     []string `json:"image"`
}

// Inherit fills every empty alias list of p from base.
func (p Profile) Inherit(base Profile) Profile {
	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = append([]string(nil), src...)
		}
	}
	fill(&p.Game, base.Game)
	fill(&p.Set, base.Set)
	fill(&p.Name, base.Name)
	fill(&p.Number, base.Number)
	fill(&p.Condition, base.Condition)
	fill(&p.Finish, base.Finish)
	fill(&p.Price, base.Price)
	fill(&p.Quantity, base.Quantity)
	fill(&p.Location, base.Location)
	fill(&p.Image, base.Image)
	if p.DefaultGame == "" {
		p.DefaultGame = base.DefaultGame
	}
	return p
}

var (
	registry   = make(map[string]Profile)
	registryMu sync.RWMutex
)

// RegisterProfile adds a profile to the registry.
// Panics if a profile with the same key is already registered.
func RegisterProfile(p Profile) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if p.Key == "" {
		panic("profile key is required")
	}
	if _, exists := registry[p.Key]; exists {
		panic(fmt.Sprintf("profile already registered: %s", p.Key))
	}
	if p.Label == "" {
		p.Label = p.Key
	}

	registry[p.Key] = p
}

// GetProfile returns a profile by key.
// Returns false if not found.
func GetProfile(key string) (Profile, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[key]
	return p, ok
}

// Profiles returns all registered profiles sorted by key.
func Profiles() []Profile {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Profile, 0, len(registry))
	for _, p := range registry {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ProfileCount returns the number of registered profiles.
func ProfileCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered profiles.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Profile)
}
