package cmd

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// soundfontCache keeps the directory listing served by /soundfonts.
// Saves invalidate it through a debouncer so a burst of writes causes
// a single rescan.
type soundfontCache struct {
	dir       string
	debounced func(func())

	mu    sync.Mutex
	names []string
	valid bool
}

func newSoundfontCache(dir string) *soundfontCache {
	return &soundfontCache{
		dir:       dir,
		debounced: debounce.New(500 * time.Millisecond),
	}
}

func (c *soundfontCache) list() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		entries, err := os.ReadDir(c.dir)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		c.names = names
		c.valid = true
	}

	out := make([]string, len(c.names))
	copy(out, c.names)
	return out, nil
}

func (c *soundfontCache) invalidate() {
	c.debounced(func() {
		c.mu.Lock()
		c.valid = false
		c.mu.Unlock()
	})
}
