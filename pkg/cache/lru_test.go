package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestLRUCacheRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := NewLRUCache(4, time.Minute)

	_, ok, err := c.Get(ctx, DashboardKey("team-1"))
	is.NoErr(err)
	is.True(!ok)

	is.NoErr(c.Set(ctx, DashboardKey("team-1"), []byte(`{"overdueCount":1}`), time.Minute))
	got, ok, err := c.Get(ctx, DashboardKey("team-1"))
	is.NoErr(err)
	is.True(ok)
	is.Equal(string(got), `{"overdueCount":1}`)

	is.NoErr(c.Delete(ctx, DashboardKey("team-1")))
	_, ok, _ = c.Get(ctx, DashboardKey("team-1"))
	is.True(!ok)
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := NewLRUCache(2, time.Minute)

	is.NoErr(c.Set(ctx, "a", []byte("1"), 0))
	is.NoErr(c.Set(ctx, "b", []byte("2"), 0))
	is.NoErr(c.Set(ctx, "c", []byte("3"), 0))

	_, ok, _ := c.Get(ctx, "a")
	is.True(!ok)
	_, ok, _ = c.Get(ctx, "c")
	is.True(ok)
}

func TestLRUCacheExpires(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := NewLRUCache(2, 20*time.Millisecond)

	is.NoErr(c.Set(ctx, "a", []byte("1"), 0))
	time.Sleep(60 * time.Millisecond)
	_, ok, _ := c.Get(ctx, "a")
	is.True(!ok)
}

func TestLRUCacheSetTTL(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	c := NewLRUCache(2, time.Hour)

	is.NoErr(c.Set(ctx, "a", []byte("1"), 0))
	c.SetTTL(time.Hour)
	_, ok, _ := c.Get(ctx, "a")
	is.True(ok) // unchanged TTL keeps entries

	c.SetTTL(20 * time.Millisecond)
	is.Equal(c.TTL(), 20*time.Millisecond)
	_, ok, _ = c.Get(ctx, "a")
	is.True(!ok)

	is.NoErr(c.Set(ctx, "b", []byte("2"), 0))
	time.Sleep(60 * time.Millisecond)
	_, ok, _ = c.Get(ctx, "b")
	is.True(!ok)
}
