package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/mergington/activities-api/pkg/errors"
)

type mockCacheRepo struct {
	store    map[string][]byte
	getErr   error
	lastTTL  time.Duration
	patterns []string
}

func (m *mockCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	m.lastTTL = ttl
	return nil
}

func (m *mockCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &mockCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	require.NoError(t, svc.Set(context.Background(), "k", []string{"a", "b"}, 0))
	assert.Equal(t, time.Minute, repo.lastTTL)

	var out []string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestCacheServiceMissIsNotAnError(t *testing.T) {
	svc := NewCacheService(&mockCacheRepo{}, nil, time.Minute, nil, true)

	var out []string
	hit, err := svc.Get(context.Background(), "absent", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceGetFailure(t *testing.T) {
	repo := &mockCacheRepo{getErr: errors.New("redis down")}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out []string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.Error(t, err)
	assert.False(t, hit)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := &mockCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.Empty(t, repo.store)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServicePerConcernInstances(t *testing.T) {
	repo := &mockCacheRepo{}
	activities := NewCacheService(repo, nil, 2*time.Minute, nil, true)
	announcements := NewCacheService(repo, nil, 10*time.Minute, nil, false)

	require.NoError(t, activities.Set(context.Background(), "activities:list:all", []string{"Chess Club"}, 0))
	assert.Equal(t, 2*time.Minute, repo.lastTTL)

	require.NoError(t, announcements.Set(context.Background(), "announcements:list:all", []string{"a1"}, 0))
	assert.NotContains(t, repo.store, "announcements:list:all")
	assert.Equal(t, 2*time.Minute, repo.lastTTL)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := &mockCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	require.NoError(t, svc.Invalidate(context.Background(), "activities:list:*"))
	assert.Equal(t, []string{"activities:list:*"}, repo.patterns)
}
