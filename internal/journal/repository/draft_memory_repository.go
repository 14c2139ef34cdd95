package repository

import (
	"context"
	"sync"
	"time"
)

// NewMemoryDraftRepository creates an in-memory draft repository. It
// backs redis-less deployments and tests.
func NewMemoryDraftRepository() DraftRepository {
	return &memoryDraftRepository{drafts: make(map[string]*memoryDraft)}
}

type memoryDraft struct {
	fields   map[string]string
	imageURL string
	touched  time.Time
}

type memoryDraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]*memoryDraft
}

func (r *memoryDraftRepository) draft(session string) *memoryDraft {
	d, ok := r.drafts[session]
	if !ok {
		d = &memoryDraft{fields: make(map[string]string)}
		r.drafts[session] = d
	}
	return d
}

func (r *memoryDraftRepository) Touch(_ context.Context, session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft(session).touched = time.Now()
	return nil
}

func (r *memoryDraftRepository) SetField(_ context.Context, session, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.draft(session)
	d.fields[key] = value
	d.touched = time.Now()
	return nil
}

func (r *memoryDraftRepository) GetField(_ context.Context, session, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[session]
	if !ok {
		return "", false, nil
	}
	val, ok := d.fields[key]
	return val, ok, nil
}

func (r *memoryDraftRepository) Fields(_ context.Context, session string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fields := make(map[string]string)
	if d, ok := r.drafts[session]; ok {
		for k, v := range d.fields {
			fields[k] = v
		}
	}
	return fields, nil
}

func (r *memoryDraftRepository) ClearFields(_ context.Context, session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drafts[session]; ok {
		d.fields = make(map[string]string)
		d.touched = time.Now()
	}
	return nil
}

func (r *memoryDraftRepository) SetImageURL(_ context.Context, session, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.draft(session)
	d.imageURL = url
	d.touched = time.Now()
	return nil
}

func (r *memoryDraftRepository) ImageURL(_ context.Context, session string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.drafts[session]; ok {
		return d.imageURL, nil
	}
	return "", nil
}

func (r *memoryDraftRepository) Clear(_ context.Context, session string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, session)
	return nil
}

func (r *memoryDraftRepository) Sessions(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]string, 0, len(r.drafts))
	for session := range r.drafts {
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *memoryDraftRepository) LastTouched(_ context.Context, session string) (time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.drafts[session]; ok {
		return d.touched, nil
	}
	return time.Time{}, nil
}
