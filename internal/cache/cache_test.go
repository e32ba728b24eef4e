package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"movie-catalog/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), zap.NewNop())
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestMoviesPageKey(t *testing.T) {
	assert.Equal(t, "movies:page:1:per_page:10", MoviesPageKey(1, 10))
	assert.Equal(t, "movies:page:3:per_page:20", MoviesPageKey(3, 20))
}

func TestMoviesPageKey_Distinct(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("different (page, per_page) give different keys", prop.ForAll(
		func(p1, s1, p2, s2 int) bool {
			same := p1 == p2 && s1 == s2
			return (MoviesPageKey(p1, s1) == MoviesPageKey(p2, s2)) == same
		},
		gen.IntRange(1, 10000), gen.IntRange(1, 20),
		gen.IntRange(1, 10000), gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	_, found, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), MoviesPageTTL))
	got, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, MoviesPageTTL, mr.TTL("k"))

	mr.FastForward(MoviesPageTTL + time.Second)
	_, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "d", []byte("x"), time.Minute))
	require.NoError(t, c.Delete(ctx, "d"))
	assert.False(t, mr.Exists("d"))

	assert.NoError(t, c.Ping(ctx))
}

func TestRedisCache_Unavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)
	mr.Close()

	_, found, err := c.Get(ctx, "k")
	assert.False(t, found)
	assert.ErrorIs(t, err, ErrCache)

	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), time.Minute), ErrCache)
	assert.ErrorIs(t, c.Ping(ctx), ErrCache)
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := InitRedis(utils.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	mr.Close()
	_, err = InitRedis(utils.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	assert.ErrorIs(t, err, ErrCache)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, c.Set(ctx, "forever", []byte("f"), 0))

	_, found, _ := c.Get(ctx, "k")
	assert.True(t, found)

	now = now.Add(time.Hour)
	_, found, _ = c.Get(ctx, "k")
	assert.False(t, found, "entry expires exactly at its TTL")

	_, found, _ = c.Get(ctx, "forever")
	assert.True(t, found)
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, time.Minute))
	value[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	got[1] = 'y'

	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

type page struct {
	Items []int `json:"items"`
	Total int   `json:"total"`
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]Cache{
		"memory": NewMemoryCache(),
		"redis":  func() Cache { rc, _ := newTestRedis(t); return rc }(),
	} {
		t.Run(name, func(t *testing.T) {
			var dst page
			hit, err := GetJSON(ctx, c, "p", &dst)
			require.NoError(t, err)
			assert.False(t, hit)

			want := page{Items: []int{1, 2, 3}, Total: 3}
			require.NoError(t, SetJSON(ctx, c, "p", want, time.Minute))

			hit, err = GetJSON(ctx, c, "p", &dst)
			require.NoError(t, err)
			assert.True(t, hit)
			assert.Equal(t, want, dst)

			require.NoError(t, c.Set(ctx, "bad", []byte("{"), time.Minute))
			_, err = GetJSON(ctx, c, "bad", &dst)
			assert.ErrorIs(t, err, ErrCache)
		})
	}
}

type brokenCache struct{ err error }

func (b brokenCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, b.err }
func (b brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return b.err
}
func (b brokenCache) Delete(context.Context, string) error { return b.err }
func (b brokenCache) Ping(context.Context) error           { return b.err }

func TestJSONHelpers_WrapFailures(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("i/o timeout")
	c := brokenCache{err: cause}

	var dst page
	_, err := GetJSON(ctx, c, "k", &dst)
	assert.ErrorIs(t, err, ErrCache)
	assert.ErrorIs(t, err, cause)

	err = SetJSON(ctx, c, "k", page{}, time.Minute)
	assert.ErrorIs(t, err, ErrCache)

	err = SetJSON(ctx, NewMemoryCache(), "k", func() {}, time.Minute)
	assert.ErrorIs(t, err, ErrCache, "unencodable values are cache errors too")

	already := fmt.Errorf("%w: get k: boom", ErrCache)
	_, err = GetJSON(ctx, brokenCache{err: already}, "k", &dst)
	assert.Equal(t, already, err, "already wrapped errors are passed through")
}
