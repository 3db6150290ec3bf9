package formsprovider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/domain/forms"
)

// Common errors
var (
	ErrArtifactNotFound = errors.New("form artifact not found")
	ErrFieldNotFound    = errors.New("form field not found")
)

// MemoryProvider is the in-process form artifact host, used in
// development mode and tests.
type MemoryProvider struct {
	mu        sync.RWMutex
	artifacts map[string]*memoryArtifact
}

type memoryField struct {
	id      string
	title   string
	kind    forms.ItemKind
	choices []string
}

type memoryArtifact struct {
	provider *MemoryProvider
	id       string
	title    string
	fields   []memoryField
}

// NewMemoryProvider creates an empty provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{artifacts: make(map[string]*memoryArtifact)}
}

func (p *MemoryProvider) Create(ctx context.Context, name string) (forms.Artifact, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a := &memoryArtifact{
		provider: p,
		id:       uuid.New().String(),
		title:    name,
	}
	p.artifacts[a.id] = a
	return a, nil
}

func (p *MemoryProvider) Open(ctx context.Context, artifactID string) (forms.Artifact, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	a, ok := p.artifacts[artifactID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, artifactID)
	}
	return a, nil
}

// Fields returns a snapshot of an artifact's fields, for tests.
func (p *MemoryProvider) Fields(artifactID string) ([]forms.Field, []([]string), bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	a, ok := p.artifacts[artifactID]
	if !ok {
		return nil, nil, false
	}
	fields := make([]forms.Field, 0, len(a.fields))
	choices := make([][]string, 0, len(a.fields))
	for _, f := range a.fields {
		fields = append(fields, forms.Field{ID: f.id, Title: f.title})
		choices = append(choices, append([]string(nil), f.choices...))
	}
	return fields, choices, true
}

func (a *memoryArtifact) ID() string {
	return a.id
}

func (a *memoryArtifact) Title(ctx context.Context) (string, error) {
	a.provider.mu.RLock()
	defer a.provider.mu.RUnlock()
	return a.title, nil
}

func (a *memoryArtifact) AddField(ctx context.Context, kind forms.ItemKind, title string, choices []string) error {
	a.provider.mu.Lock()
	defer a.provider.mu.Unlock()

	a.fields = append(a.fields, memoryField{
		id:      uuid.New().String(),
		title:   title,
		kind:    kind,
		choices: append([]string(nil), choices...),
	})
	return nil
}

func (a *memoryArtifact) ListFields(ctx context.Context) ([]forms.Field, error) {
	a.provider.mu.RLock()
	defer a.provider.mu.RUnlock()

	fields := make([]forms.Field, 0, len(a.fields))
	for _, f := range a.fields {
		fields = append(fields, forms.Field{ID: f.id, Title: f.title})
	}
	return fields, nil
}

func (a *memoryArtifact) DeleteField(ctx context.Context, fieldID string) error {
	a.provider.mu.Lock()
	defer a.provider.mu.Unlock()

	for i, f := range a.fields {
		if f.id == fieldID {
			a.fields = append(a.fields[:i], a.fields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
}
