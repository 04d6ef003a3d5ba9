package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
)

type cacheRepoFake struct {
	entries map[string]string
	getErr  error
	lastTTL time.Duration
	deleted []string
}

func (f *cacheRepoFake) Get(ctx context.Context, key string, dest interface{}) error {
	if f.getErr != nil {
		return f.getErr
	}
	if _, ok := f.entries[key]; !ok {
		return appErrors.ErrCacheMiss
	}
	return nil
}

func (f *cacheRepoFake) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if f.entries == nil {
		f.entries = map[string]string{}
	}
	f.entries[key] = "set"
	f.lastTTL = ttl
	return nil
}

func (f *cacheRepoFake) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deleted = append(f.deleted, pattern)
	return nil
}

func TestCacheServiceDisabled(t *testing.T) {
	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())

	svc := NewCacheService(nil, nil, time.Minute, nil, false)
	assert.False(t, svc.Enabled())
	hit, err := svc.Get(context.Background(), "k", nil)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
}

func TestCacheServiceGetSet(t *testing.T) {
	repo := &cacheRepoFake{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	require.True(t, svc.Enabled())

	hit, err := svc.Get(context.Background(), "lectures:stage-1::", nil)
	require.NoError(t, err)
	assert.False(t, hit, "miss sentinel must not surface as an error")

	require.NoError(t, svc.Set(context.Background(), "lectures:stage-1::", "payload", 0))
	assert.Equal(t, time.Minute, repo.lastTTL, "zero ttl falls back to the default")

	hit, err = svc.Get(context.Background(), "lectures:stage-1::", nil)
	require.NoError(t, err)
	assert.True(t, hit)

	repo.getErr = errors.New("connection refused")
	_, err = svc.Get(context.Background(), "lectures:stage-1::", nil)
	assert.Error(t, err)
}

func TestCacheServiceInvalidate(t *testing.T) {
	repo := &cacheRepoFake{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	svc.Invalidate(context.Background(), "lectures:*")
	assert.Equal(t, []string{"lectures:*"}, repo.deleted)
}
