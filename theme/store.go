// Package theme holds the process-wide color palette. It is fetched once
// before the first render and written into a :root style block on every
// page; the admin theme screen mutates it for live preview and persists on
// explicit save.
package theme

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
)

// Names is the fixed enumerated set of semantic color names, in display order.
var Names = []string{
	"primary", "secondary", "success", "info", "warning",
	"danger", "light", "dark", "body_bg", "body_text",
}

// defaults keep the site styled when the palette fetch fails.
var defaults = map[string]string{
	"primary":   "#0d6efd",
	"secondary": "#6c757d",
	"success":   "#198754",
	"info":      "#0dcaf0",
	"warning":   "#ffc107",
	"danger":    "#dc3545",
	"light":     "#f8f9fa",
	"dark":      "#212529",
	"body_bg":   "#ffffff",
	"body_text": "#212529",
}

type Store struct {
	mu      sync.RWMutex
	palette map[string]string
}

func NewStore() *Store {
	s := &Store{palette: make(map[string]string, len(defaults))}
	for k, v := range defaults {
		s.palette[k] = v
	}
	return s
}

// Apply fetches the palette once and merges it over the defaults. It fails
// open: on any error the application proceeds with the styling already
// defined and never blocks startup.
func (s *Store) Apply(ctx context.Context, client *backend.Client, logger core.Logger) {
	palette, err := client.Theme(ctx)
	if err != nil {
		logger.Warn("theme fetch failed; using defaults", err)
		return
	}
	s.Set(palette)
}

// Palette returns a snapshot copy of the current palette.
func (s *Store) Palette() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.palette))
	for k, v := range s.palette {
		out[k] = v
	}
	return out
}

// Get returns one color value, falling back to the compiled-in default.
func (s *Store) Get(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.palette[name]; ok && v != "" {
		return v
	}
	return defaults[name]
}

// Set merges values into the palette. Unknown names are ignored so a
// drifting backend cannot inject arbitrary style keys.
func (s *Store) Set(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range Names {
		if v, ok := values[name]; ok && v != "" {
			s.palette[name] = v
		}
	}
}

// CSS renders the palette as a :root custom-property block consumed by
// every rendered page.
func (s *Store) CSS() string {
	palette := s.Palette()

	keys := make([]string, 0, len(palette))
	for k := range palette {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, k := range keys {
		fmt.Fprintf(&b, "--bs-%s:%s;", strings.ReplaceAll(k, "_", "-"), palette[k])
	}
	b.WriteString("}")
	return b.String()
}
