package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
)

const cacheKey = "match:emb_cache:m:abc"

func TestGet(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", cacheKey)).
		Return(mock.Result(mock.RedisBlobString("blob")))

	data, err := s.Get(context.Background(), cacheKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "blob" {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestGet_Missing(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", cacheKey)).
		Return(mock.Result(mock.RedisNil()))

	if _, err := s.Get(context.Background(), cacheKey); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestSet(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", cacheKey, "blob")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.Set(context.Background(), cacheKey, []byte("blob")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", cacheKey, "blob", "EX", "3600")).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.SetWithTTL(context.Background(), cacheKey, []byte("blob"), time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSet_Error(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("OOM")))

	if err := s.Set(context.Background(), cacheKey, []byte("x")); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}
