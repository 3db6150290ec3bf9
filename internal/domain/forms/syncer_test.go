package forms

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

type fakeField struct {
	id      string
	title   string
	kind    ItemKind
	choices []string
}

type fakeArtifact struct {
	id      string
	title   string
	fields  []fakeField
	nextSeq int
}

func (a *fakeArtifact) ID() string { return a.id }

func (a *fakeArtifact) Title(ctx context.Context) (string, error) { return a.title, nil }

func (a *fakeArtifact) AddField(ctx context.Context, kind ItemKind, title string, choices []string) error {
	a.nextSeq++
	a.fields = append(a.fields, fakeField{
		id:      fmt.Sprintf("f%d", a.nextSeq),
		title:   title,
		kind:    kind,
		choices: choices,
	})
	return nil
}

func (a *fakeArtifact) ListFields(ctx context.Context) ([]Field, error) {
	out := make([]Field, 0, len(a.fields))
	for _, f := range a.fields {
		out = append(out, Field{ID: f.id, Title: f.title})
	}
	return out, nil
}

func (a *fakeArtifact) DeleteField(ctx context.Context, fieldID string) error {
	for i, f := range a.fields {
		if f.id == fieldID {
			a.fields = append(a.fields[:i], a.fields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("field %s not found", fieldID)
}

type fakeProvider struct {
	artifacts map[string]*fakeArtifact
	created   int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{artifacts: map[string]*fakeArtifact{}}
}

func (p *fakeProvider) Create(ctx context.Context, name string) (Artifact, error) {
	p.created++
	a := &fakeArtifact{id: fmt.Sprintf("artifact-%d", p.created), title: name}
	p.artifacts[a.id] = a
	return a, nil
}

func (p *fakeProvider) Open(ctx context.Context, artifactID string) (Artifact, error) {
	a, ok := p.artifacts[artifactID]
	if !ok {
		return nil, fmt.Errorf("artifact %s not found", artifactID)
	}
	return a, nil
}

type syncerFixture struct {
	repo     Repository
	provider *fakeProvider
	syncer   *Syncer
}

func newSyncerFixture(t *testing.T) *syncerFixture {
	t.Helper()
	repo := NewRepository(store.NewMemoryStore())
	provider := newFakeProvider()
	syncer := NewSyncer(repo, provider, store.NewMemoryLocker(), time.Second, logger.NewNop())
	return &syncerFixture{repo: repo, provider: provider, syncer: syncer}
}

func (f *syncerFixture) seedIntakeGroup(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.repo.CreateDefinition(ctx, &Definition{
		FormName:      "Story Intake",
		QuestionTitle: "Headline",
		Kind:          ItemKindText,
	}))
	require.NoError(t, f.repo.CreateDefinition(ctx, &Definition{
		FormName:      "Story Intake",
		QuestionTitle: "Summary",
		Kind:          ItemKindParagraph,
	}))
	require.NoError(t, f.repo.CreateDefinition(ctx, &Definition{
		FormName:      "Story Intake",
		QuestionTitle: "Section",
		Kind:          ItemKindDropdown,
		Options:       []string{"A", "B", "C"},
	}))
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates artifact and fans out the id", func(t *testing.T) {
		f := newSyncerFixture(t)
		f.seedIntakeGroup(t)

		artifactID, err := f.syncer.Generate(ctx, "Story Intake")
		require.NoError(t, err)
		require.NotEmpty(t, artifactID)

		// Fields were added in row order with their choices.
		a := f.provider.artifacts[artifactID]
		require.NotNil(t, a)
		require.Len(t, a.fields, 3)
		assert.Equal(t, "Headline", a.fields[0].title)
		assert.Equal(t, "Summary", a.fields[1].title)
		assert.Equal(t, "Section", a.fields[2].title)
		assert.Equal(t, ItemKindDropdown, a.fields[2].kind)
		assert.Equal(t, []string{"A", "B", "C"}, a.fields[2].choices)

		// Text fields carry no choices even if options were stored.
		assert.Nil(t, a.fields[0].choices)

		// Every row of the group got the artifact id.
		defs, err := f.repo.ListGroup(ctx, "Story Intake")
		require.NoError(t, err)
		require.Len(t, defs, 3)
		for _, d := range defs {
			assert.Equal(t, artifactID, d.ArtifactID)
		}

		got, err := f.syncer.GroupArtifactID(ctx, "Story Intake")
		require.NoError(t, err)
		assert.Equal(t, artifactID, got)
	})

	t.Run("unknown group fails", func(t *testing.T) {
		f := newSyncerFixture(t)
		_, err := f.syncer.Generate(ctx, "Missing")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("second generate is rejected", func(t *testing.T) {
		f := newSyncerFixture(t)
		f.seedIntakeGroup(t)

		_, err := f.syncer.Generate(ctx, "Story Intake")
		require.NoError(t, err)

		_, err = f.syncer.Generate(ctx, "Story Intake")
		assert.ErrorIs(t, err, ErrAlreadyGenerated)
		assert.Equal(t, 1, f.provider.created)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("rebuilds the artifact from current rows", func(t *testing.T) {
		f := newSyncerFixture(t)
		f.seedIntakeGroup(t)

		artifactID, err := f.syncer.Generate(ctx, "Story Intake")
		require.NoError(t, err)

		// A new row added after generation shows up on rebuild.
		require.NoError(t, f.repo.CreateDefinition(ctx, &Definition{
			FormName:      "Story Intake",
			ArtifactID:    artifactID,
			QuestionTitle: "Byline",
			Kind:          ItemKindText,
		}))

		require.NoError(t, f.syncer.Update(ctx, "Story Intake"))

		a := f.provider.artifacts[artifactID]
		require.Len(t, a.fields, 4)
		assert.Equal(t, "Headline", a.fields[0].title)
		assert.Equal(t, "Byline", a.fields[3].title)
	})

	t.Run("ungenerated group fails", func(t *testing.T) {
		f := newSyncerFixture(t)
		f.seedIntakeGroup(t)

		err := f.syncer.Update(ctx, "Story Intake")
		assert.ErrorIs(t, err, ErrNotGenerated)
	})

	t.Run("unknown group fails", func(t *testing.T) {
		f := newSyncerFixture(t)
		err := f.syncer.Update(ctx, "Missing")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestCreateDefinitionValidation(t *testing.T) {
	ctx := context.Background()
	f := newSyncerFixture(t)

	err := f.repo.CreateDefinition(ctx, &Definition{
		FormName:      "Broken",
		QuestionTitle: "Pick one",
		Kind:          ItemKind("slider"),
	})
	assert.ErrorIs(t, err, ErrInvalidItemKind)

	// Choice kinds need options.
	err = f.repo.CreateDefinition(ctx, &Definition{
		FormName:      "Broken",
		QuestionTitle: "Pick one",
		Kind:          ItemKindChoice,
	})
	assert.Error(t, err)
}
