package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/server/repositories/videos"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	getVal  string
	getErr  error
	setErr  error
	incrErr error

	setKey  string
	setVal  interface{}
	setTTL  time.Duration
	counter map[string]int64
}

func (f *fakeClient) Get(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult(f.getVal, f.getErr)
}

func (f *fakeClient) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.setKey, f.setVal, f.setTTL = key, value, ttl
	return redis.NewStatusResult("OK", f.setErr)
}

func (f *fakeClient) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.incrErr != nil {
		return redis.NewIntResult(0, f.incrErr)
	}
	if f.counter == nil {
		f.counter = map[string]int64{}
	}
	f.counter[key]++
	return redis.NewIntResult(f.counter[key], nil)
}

func TestRedisCache_Get(t *testing.T) {
	c := &RedisCache{client: &fakeClient{getVal: "[]"}}
	b, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), b)
}

func TestRedisCache_GetMiss(t *testing.T) {
	c := &RedisCache{client: &fakeClient{getErr: redis.Nil}}
	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, videos.ErrCacheMiss)
}

func TestRedisCache_GetError(t *testing.T) {
	boom := errors.New("conn refused")
	c := &RedisCache{client: &fakeClient{getErr: boom}}
	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, videos.ErrCacheMiss)
}

func TestRedisCache_SetAndIncr(t *testing.T) {
	f := &fakeClient{}
	c := &RedisCache{client: f}

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	assert.Equal(t, "k", f.setKey)
	assert.Equal(t, []byte("v"), f.setVal)
	assert.Equal(t, time.Minute, f.setTTL)

	n, err := c.Incr(context.Background(), "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Incr(context.Background(), "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisCache_IncrError(t *testing.T) {
	c := &RedisCache{client: &fakeClient{incrErr: errors.New("readonly")}}
	_, err := c.Incr(context.Background(), "gen")
	assert.ErrorContains(t, err, "readonly")
}

func TestRedisCache_SetError(t *testing.T) {
	c := &RedisCache{client: &fakeClient{setErr: errors.New("readonly")}}
	assert.Error(t, c.Set(context.Background(), "k", nil, 0))
}
