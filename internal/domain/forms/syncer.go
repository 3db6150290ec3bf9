package forms

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

// Syncer makes a live external form artifact match a named declarative
// group of field rows. It is the only component that writes the
// artifact id back onto definition rows.
type Syncer struct {
	repo        Repository
	provider    Provider
	locker      store.Locker
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(repo Repository, provider Provider, locker store.Locker, lockTimeout time.Duration, log *logger.Logger) *Syncer {
	if lockTimeout <= 0 {
		lockTimeout = 30 * time.Second
	}
	return &Syncer{
		repo:        repo,
		provider:    provider,
		locker:      locker,
		lockTimeout: lockTimeout,
		log:         log,
	}
}

// GroupArtifactID returns the group's artifact id, empty when the group
// exists but has not been generated. The first row's value is
// authoritative by convention.
func (s *Syncer) GroupArtifactID(ctx context.Context, formName string) (string, error) {
	defs, err := s.repo.ListGroup(ctx, formName)
	if err != nil {
		return "", err
	}
	if len(defs) == 0 {
		return "", ErrGroupNotFound
	}
	return defs[0].ArtifactID, nil
}

// Generate creates a new external artifact for a group that has none
// yet, adds one field per row in row order, then fans the artifact id
// out onto every row of the group. Re-invoking on an already-generated
// group is rejected; callers route to Update instead, so a duplicate
// artifact can never be created by accident.
func (s *Syncer) Generate(ctx context.Context, formName string) (string, error) {
	release, err := s.locker.Acquire(ctx, s.lockTimeout)
	if err != nil {
		return "", err
	}
	defer release()

	defs, err := s.repo.ListGroup(ctx, formName)
	if err != nil {
		return "", err
	}
	if len(defs) == 0 {
		return "", ErrGroupNotFound
	}
	if defs[0].ArtifactID != "" {
		return "", fmt.Errorf("%w: %q has artifact %s", ErrAlreadyGenerated, formName, defs[0].ArtifactID)
	}

	artifact, err := s.provider.Create(ctx, formName)
	if err != nil {
		return "", fmt.Errorf("create artifact for %q: %w", formName, err)
	}

	if err := s.addFields(ctx, artifact, defs); err != nil {
		return "", err
	}

	updated, err := s.repo.SetGroupArtifactID(ctx, formName, artifact.ID())
	if err != nil {
		return "", fmt.Errorf("write back artifact id for %q: %w", formName, err)
	}

	s.log.Info("form group generated",
		zap.String("form_name", formName),
		zap.String("artifact_id", artifact.ID()),
		zap.Int("fields", len(defs)),
		zap.Int("rows_updated", updated),
	)
	return artifact.ID(), nil
}

// Update rebuilds an already-generated artifact from the current
// metadata: every live field is removed, then fields are re-added in
// current row order. The rebuild is deliberately destructive: partial
// diffing across reorderings and retitlings is unsound without a stable
// per-field identity.
func (s *Syncer) Update(ctx context.Context, formName string) error {
	release, err := s.locker.Acquire(ctx, s.lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	defs, err := s.repo.ListGroup(ctx, formName)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return ErrGroupNotFound
	}
	if defs[0].ArtifactID == "" {
		return fmt.Errorf("%w: %q", ErrNotGenerated, formName)
	}

	artifact, err := s.provider.Open(ctx, defs[0].ArtifactID)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", defs[0].ArtifactID, err)
	}

	fields, err := artifact.ListFields(ctx)
	if err != nil {
		return fmt.Errorf("list fields of %s: %w", artifact.ID(), err)
	}
	for _, f := range fields {
		if err := artifact.DeleteField(ctx, f.ID); err != nil {
			return fmt.Errorf("delete field %s: %w", f.ID, err)
		}
	}

	if err := s.addFields(ctx, artifact, defs); err != nil {
		return err
	}

	s.log.Info("form group rebuilt",
		zap.String("form_name", formName),
		zap.String("artifact_id", artifact.ID()),
		zap.Int("fields", len(defs)),
	)
	return nil
}

func (s *Syncer) addFields(ctx context.Context, artifact Artifact, defs []Definition) error {
	for _, d := range defs {
		var choices []string
		if d.Kind.HasChoices() {
			choices = d.Options
		}
		if err := artifact.AddField(ctx, d.Kind, d.QuestionTitle, choices); err != nil {
			return fmt.Errorf("add field %q: %w", d.QuestionTitle, err)
		}
	}
	return nil
}
