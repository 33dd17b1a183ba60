package services

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrPreviewNotFound = errors.New("preview not found")
	ErrPreviewReleased = errors.New("preview already released")
)

type preview struct {
	data        []byte
	contentType string
}

// ReleasedHistory is how many released preview IDs are remembered to report
// a double release. Older IDs fall back to ErrPreviewNotFound.
const ReleasedHistory = 64

// PreviewStore hands out transient local previews of picked product images.
// Every acquired preview must be released exactly once.
type PreviewStore struct {
	mu       sync.Mutex
	live     map[string]preview
	released map[string]struct{}
	// ring of the most recent released IDs, oldest at next
	recent []string
	next   int
}

func NewPreviewStore() *PreviewStore {
	return &PreviewStore{
		live:     map[string]preview{},
		released: map[string]struct{}{},
		recent:   make([]string, 0, ReleasedHistory),
	}
}

func (p *PreviewStore) Acquire(data []byte, contentType string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := uuid.NewString()
	p.live[id] = preview{data: data, contentType: contentType}
	return id
}

func (p *PreviewStore) Get(id string) ([]byte, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pv, ok := p.live[id]
	if !ok {
		return nil, "", ErrPreviewNotFound
	}
	return pv.data, pv.contentType, nil
}

func (p *PreviewStore) Release(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.live[id]; ok {
		delete(p.live, id)
		p.remember(id)
		return nil
	}
	if _, ok := p.released[id]; ok {
		return ErrPreviewReleased
	}
	return ErrPreviewNotFound
}

func (p *PreviewStore) remember(id string) {
	if len(p.recent) < ReleasedHistory {
		p.recent = append(p.recent, id)
	} else {
		delete(p.released, p.recent[p.next])
		p.recent[p.next] = id
		p.next = (p.next + 1) % ReleasedHistory
	}
	p.released[id] = struct{}{}
}

// Outstanding is the number of previews acquired and not yet released.
func (p *PreviewStore) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.live)
}

// Remembered is the number of released IDs kept for double-release checks.
func (p *PreviewStore) Remembered() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.released)
}
