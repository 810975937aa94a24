package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type memoryCacheRepo struct {
	items   map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.failGet {
		return errors.New("connection refused")
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var got []int
	assert.False(t, svc.Get(ctx, "timetable:current", &got))

	svc.Set(ctx, "timetable:current", []int{1, 2}, 0)
	assert.Equal(t, time.Minute, repo.ttls["timetable:current"])
	require.True(t, svc.Get(ctx, "timetable:current", &got))
	assert.Equal(t, []int{1, 2}, got)

	svc.Set(ctx, "catalog:rooms", []int{3}, time.Second)
	svc.Invalidate(ctx, "timetable:*")
	assert.False(t, svc.Get(ctx, "timetable:current", &got))
	assert.True(t, svc.Get(ctx, "catalog:rooms", &got))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, nil, false)

	svc.Set(context.Background(), "k", 1, 0)
	assert.Empty(t, repo.items)
	var v int
	assert.False(t, svc.Get(context.Background(), "k", &v))

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	assert.False(t, nilSvc.Get(context.Background(), "k", &v))
}

func TestCacheServiceGetFailureIsMiss(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.failGet = true
	svc := NewCacheService(repo, nil, 0, nil, true)
	var v int
	assert.False(t, svc.Get(context.Background(), "k", &v))
}
