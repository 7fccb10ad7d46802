package cmd

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// uploadStore tracks uploaded files in a temp directory, keyed by
// their opaque token names, and expires them after a quiet period.
// Any read access refreshes the expiration.
type uploadStore struct {
	dir string
	ttl time.Duration

	mu      sync.Mutex
	touched map[string]time.Time
}

func newUploadStore(dir string, ttl time.Duration) *uploadStore {
	return &uploadStore{
		dir:     dir,
		ttl:     ttl,
		touched: make(map[string]time.Time),
	}
}

func (s *uploadStore) add(name string) {
	s.mu.Lock()
	s.touched[name] = time.Now()
	s.mu.Unlock()
}

// refresh bumps a tracked file's expiration. Returns false for files
// that are unknown or already expired.
func (s *uploadStore) refresh(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.touched[name]; !ok {
		return false
	}
	s.touched[name] = time.Now()
	return true
}

// resolve maps a token to its on-disk path, refreshing the expiration.
// A missing or expired file is an ordinary not-found, never an error.
func (s *uploadStore) resolve(name string) (string, bool) {
	if !s.refresh(name) {
		return "", false
	}
	path := filepath.Join(s.dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// sweep drops entries that outlived the ttl and deletes their files.
func (s *uploadStore) sweep() {
	now := time.Now()
	var expired []string

	s.mu.Lock()
	for name, touched := range s.touched {
		if now.Sub(touched) >= s.ttl {
			expired = append(expired, name)
			delete(s.touched, name)
		}
	}
	s.mu.Unlock()

	for _, name := range expired {
		path := filepath.Join(s.dir, filepath.Base(name))
		if err := os.Remove(path); err != nil {
			log.Printf("could not remove expired file %v: %v", name, err)
		} else {
			log.Printf("removed expired file %v", name)
		}
	}
}

func (s *uploadStore) runCleanup(interval time.Duration) {
	for range time.Tick(interval) {
		s.sweep()
	}
}

// clearDir removes leftover files, used on startup.
func clearDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}
