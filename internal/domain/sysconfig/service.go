package sysconfig

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/infrastructure/cache"
	"github.com/masthead-press/masthead/pkg/logger"
)

const cacheKeyPrefix = "sysconfig:"

// Defaults applied when a key has never been written. The attendance
// suffix default can be overridden per service at construction.
var defaults = map[string]string{
	KeyValidRoles:       "Editor,Writer,Designer,Photographer",
	KeyAttendanceSuffix: " Attendance",
}

// Service reads system config through a short-TTL cache. The cache
// handle is injected at construction; there are no hidden singletons.
type Service interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
	ValidRoles(ctx context.Context) ([]string, error)
	AttendanceSuffix(ctx context.Context) (string, error)
}

type service struct {
	repo     Repository
	cache    cache.Cache
	ttl      time.Duration
	defaults map[string]string
	log      *logger.Logger
}

// NewService creates a config Service with the given cache TTL.
// attendanceSuffix, when non-empty, replaces the built-in default for
// KeyAttendanceSuffix; stored values still take precedence.
func NewService(repo Repository, c cache.Cache, ttl time.Duration, attendanceSuffix string, log *logger.Logger) Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	d := make(map[string]string, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	if attendanceSuffix != "" {
		d[KeyAttendanceSuffix] = attendanceSuffix
	}
	return &service{repo: repo, cache: c, ttl: ttl, defaults: d, log: log}
}

func (s *service) Get(ctx context.Context, key string) (string, error) {
	if cached, err := s.cache.Get(ctx, cacheKeyPrefix+key); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheNotFound) {
		// Degraded cache is not fatal; fall through to the store.
		s.log.Warn("config cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		fallback, has := s.defaults[key]
		if !has {
			return "", ErrKeyNotFound
		}
		value = fallback
	}

	if err := s.cache.Set(ctx, cacheKeyPrefix+key, value, s.ttl); err != nil {
		s.log.Warn("config cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func (s *service) Set(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	// Drop the stale entry so the next read sees the new value without
	// waiting out the TTL.
	if err := s.cache.Delete(ctx, cacheKeyPrefix+key); err != nil {
		s.log.Warn("config cache delete failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *service) All(ctx context.Context) (map[string]string, error) {
	stored, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(s.defaults)+len(stored))
	for k, v := range s.defaults {
		out[k] = v
	}
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

func (s *service) ValidRoles(ctx context.Context) ([]string, error) {
	raw, err := s.Get(ctx, KeyValidRoles)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(raw, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles, nil
}

func (s *service) AttendanceSuffix(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyAttendanceSuffix)
}
