package pages

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/coursesearch/internal/search"
	"github.com/google/uuid"
)

// Page is an uploaded document with its live search session.
type Page struct {
	ID          string
	Title       string
	Filename    string
	ContentHash string
	CreatedAt   time.Time

	Session *search.Session

	mu        sync.Mutex
	touchedAt time.Time
}

// PageInfo is a read-only, JSON-safe view of a page.
type PageInfo struct {
	ID          string    `json:"page_id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	ContentHash string    `json:"content_hash"`
	Query       string    `json:"query"`
	CreatedAt   time.Time `json:"created_at"`
	TouchedAt   time.Time `json:"touched_at"`
}

// NewPage wraps a session. The id is a random UUID.
func NewPage(filename string, data []byte, session *search.Session) *Page {
	now := time.Now()
	return &Page{
		ID:          uuid.NewString(),
		Title:       session.Title(),
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		Session:     session,
		touchedAt:   now,
	}
}

// Touch marks the page as recently used.
func (p *Page) Touch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touchedAt = time.Now()
}

func (p *Page) lastTouched() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.touchedAt
}

// Info returns a snapshot of the page metadata.
func (p *Page) Info() PageInfo {
	return PageInfo{
		ID:          p.ID,
		Title:       p.Title,
		Filename:    p.Filename,
		ContentHash: p.ContentHash,
		Query:       p.Session.Query(),
		CreatedAt:   p.CreatedAt,
		TouchedAt:   p.lastTouched(),
	}
}

// Store is a thread-safe in-memory page registry with idle-TTL eviction.
type Store struct {
	mu       sync.Mutex
	pages    map[string]*Page
	ttl      time.Duration
	maxPages int
	log      *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStore(ttl time.Duration, maxPages int, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		pages:    make(map[string]*Page),
		ttl:      ttl,
		maxPages: maxPages,
		log:      log,
	}
}

// Put registers a page. It fails when the store is full.
func (s *Store) Put(p *Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxPages > 0 && len(s.pages) >= s.maxPages {
		return fmt.Errorf("page store is full (%d)", s.maxPages)
	}
	s.pages[p.ID] = p
	return nil
}

// Get returns a page by id and refreshes its TTL. Missing ids yield nil.
func (s *Store) Get(id string) *Page {
	s.mu.Lock()
	p := s.pages[id]
	s.mu.Unlock()
	if p != nil {
		p.Touch()
	}
	return p
}

// Delete removes a page and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pages[id]
	delete(s.pages, id)
	return ok
}

// List returns page metadata ordered by creation time.
func (s *Store) List() []PageInfo {
	s.mu.Lock()
	pages := make([]*Page, 0, len(s.pages))
	for _, p := range s.pages {
		pages = append(pages, p)
	}
	s.mu.Unlock()

	infos := make([]PageInfo, 0, len(pages))
	for _, p := range pages {
		infos = append(infos, p.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.Before(infos[j].CreatedAt) })
	return infos
}

// Len returns the number of registered pages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Cleanup removes pages idle for longer than the TTL and returns how many were evicted.
func (s *Store) Cleanup() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	evicted := 0
	for id, p := range s.pages {
		if now.Sub(p.lastTouched()) > s.ttl {
			delete(s.pages, id)
			evicted++
		}
	}
	return evicted
}

// Start launches the periodic cleanup loop.
func (s *Store) Start(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if n := s.Cleanup(); n > 0 {
					s.log.Info("evicted idle pages", "count", n)
				}
			}
		}
	}()
}

// Stop ends the cleanup loop and waits for it to exit.
func (s *Store) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
