package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
)

const profileKey = "match:profile:p1"

func TestJSONSet(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.SET", profileKey, "$", `{"id":"p1"}`)).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.JSONSet(context.Background(), profileKey, "$", []byte(`{"id":"p1"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJSONSet_Error(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	err := s.JSONSet(context.Background(), profileKey, "$", []byte(`{}`))
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestJSONGet(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", profileKey, "$")).
		Return(mock.Result(mock.RedisString(`[{"id":"p1"}]`)))

	data, err := s.JSONGet(context.Background(), profileKey, "$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `[{"id":"p1"}]` {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestJSONGet_Missing(t *testing.T) {
	tests := []struct {
		name string
		msg  rueidis.RedisMessage
	}{
		{"nil reply", mock.RedisNil()},
		{"empty string", mock.RedisString("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newMockStore(t)
			c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(tt.msg))

			_, err := s.JSONGet(context.Background(), profileKey, "$")
			if !errors.Is(err, db.ErrKeyNotFound) {
				t.Errorf("expected ErrKeyNotFound, got %v", err)
			}
		})
	}
}

func TestJSONGet_NetworkErrorIsNotMissing(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := s.JSONGet(context.Background(), profileKey, "$")
	if err == nil || errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected non-notfound error, got %v", err)
	}
}

func TestJSONSetMulti(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("JSON.SET", profileKey, "$.embedding", "[0.1,0.2]"),
			mock.Match("JSON.SET", profileKey, "$.embedding_model", `"m"`),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("OK")),
			mock.Result(mock.RedisString("OK")),
		})

	err := s.JSONSetMulti(context.Background(), []db.JSONSetItem{
		{Key: profileKey, Path: "$.embedding", Data: []byte("[0.1,0.2]")},
		{Key: profileKey, Path: "$.embedding_model", Data: []byte(`"m"`)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJSONSetMulti_PartialFailure(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("OK")),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	err := s.JSONSetMulti(context.Background(), []db.JSONSetItem{
		{Key: profileKey, Path: "$.embedding", Data: []byte("[1]")},
		{Key: profileKey, Path: "$.embedding_model", Data: []byte(`"m"`)},
	})
	if !isDBError(err) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped db.Error, got %v", err)
	}
}

func TestJSONSetMulti_Empty(t *testing.T) {
	s := &Store{}
	if err := s.JSONSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExists(t *testing.T) {
	for _, n := range []int64{0, 1} {
		s, c := newMockStore(t)
		c.EXPECT().
			Do(gomock.Any(), mock.Match("EXISTS", profileKey)).
			Return(mock.Result(mock.RedisInt64(n)))

		ok, err := s.Exists(context.Background(), profileKey)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok != (n == 1) {
			t.Errorf("Exists = %v for reply %d", ok, n)
		}
	}
}
