package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "plaza_booking/internal/adapters/redis"
	"plaza_booking/internal/domain"
)

func newCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCache_RoundTrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	state := "SP"
	in := domain.Hotel{ID: 7, Name: "Center Plaza Hotel", City: "Sao Paulo", State: &state}
	if err := c.Set(ctx, "hotel:7", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out domain.Hotel
	ok, err := c.Get(ctx, "hotel:7", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out.ID != 7 || out.Name != "Center Plaza Hotel" || out.State == nil || *out.State != "SP" {
		t.Fatalf("round-trip mismatch: %+v", out)
	}
}

func TestCache_MissIsNotError(t *testing.T) {
	c := newCache(t)

	var out domain.Hotel
	ok, err := c.Get(context.Background(), "hotel:404", &out)
	if err != nil {
		t.Fatalf("miss returned error: %v", err)
	}
	if ok {
		t.Fatal("miss reported as hit")
	}
}

func TestCache_Del(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "hotels", []domain.Hotel{{ID: 1, Name: "A"}}, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Del(ctx, "hotels"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	var out []domain.Hotel
	if ok, _ := c.Get(ctx, "hotels", &out); ok {
		t.Fatal("key survived Del")
	}
}
