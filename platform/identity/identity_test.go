package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DedS3t/richman/platform/cache"
)

func TestLoadOrCreateIsStable(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	first, err := LoadOrCreate(ctx, store)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(first, "user_") {
		t.Fatalf("unexpected id %q", first)
	}
	second, err := LoadOrCreate(ctx, store)
	if err != nil || second != first {
		t.Fatalf("id changed: %q -> %q (%v)", first, second, err)
	}
	if other, _ := LoadOrCreate(ctx, cache.NewMemoryStore()); other == first {
		t.Fatal("fresh stores should not share ids")
	}
}

type failingStore struct{ cache.Store }

func (failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("disk on fire")
}

func TestLoadOrCreatePropagatesStoreErrors(t *testing.T) {
	if _, err := LoadOrCreate(context.Background(), failingStore{}); err == nil {
		t.Fatal("expected store error")
	}
}

func TestSignAndParse(t *testing.T) {
	secret := []byte("secret")
	token, err := Sign("user_1", secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if id, err := Parse(token, secret); err != nil || id != "user_1" {
		t.Fatalf("parse = %q, %v", id, err)
	}
	if _, err := Parse(token, []byte("other")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := Parse("garbage", secret); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	user, err := Load(context.Background(), cache.NewMemoryStore(), []byte("secret"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if id, err := Parse(user.Token, []byte("secret")); err != nil || id != user.Id {
		t.Fatalf("token does not carry the user id: %q %v", id, err)
	}
}
