package redis

import (
	"context"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
)

func TestSearchKNN_Success(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1), // total
			mock.RedisString("match:posting:j1"),
			mock.RedisArray(
				mock.RedisString("__vector_score"),
				mock.RedisString("0.1"), // distance 0.1 -> similarity 0.9
				mock.RedisString("id"),
				mock.RedisString("j1"),
			),
		)))

	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "match:posting:idx",
		Vector:       []float32{0.1, 0.2},
		K:            10,
		ReturnFields: []string{"id"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	e := result.Entries[0]
	if e.Key != "match:posting:j1" {
		t.Errorf("expected key match:posting:j1, got %s", e.Key)
	}
	if e.Score < 0.89 || e.Score > 0.91 {
		t.Errorf("expected score ~0.9, got %f", e.Score)
	}
	if e.Fields["id"] != "j1" {
		t.Errorf("expected id field j1, got %q", e.Fields["id"])
	}
	if _, ok := e.Fields["__vector_score"]; ok {
		t.Error("score field should be stripped from entry fields")
	}
}

func TestSearchKNN_QueryShape(t *testing.T) {
	s, c := newMockStore(t)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "match:posting:idx",
		Filter:       db.Filter{}.And("status", "ativo").And("embedding_model", "text-embedding-3-small"),
		Vector:       []float32{0.5},
		K:            30,
		Offset:       10,
		Limit:        10,
		ReturnFields: []string{"id"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantQuery := `(@status:{ativo} @embedding_model:{text\-embedding\-3\-small})=>[KNN 30 @embedding $BLOB]`
	if got[2] != wantQuery {
		t.Errorf("query = %q, want %q", got[2], wantQuery)
	}
	assertSequence(t, got, "RETURN", "2", "id", "__vector_score")
	assertSequence(t, got, "SORTBY", "__vector_score")
	assertSequence(t, got, "LIMIT", "10", "10")
	assertSequence(t, got, "DIALECT", "2")
}

func TestSearchKNN_LimitDefaultsToK(t *testing.T) {
	s, c := newMockStore(t)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return true
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	if _, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx",
		Vector:    []float32{0.5},
		K:         7,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[2] != "*=>[KNN 7 @embedding $BLOB]" {
		t.Errorf("unexpected query %q", got[2])
	}
	assertSequence(t, got, "LIMIT", "0", "7")
}

func TestSearchKNN_Empty(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx",
		Vector:    []float32{0.1},
		K:         10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(result.Entries))
	}
}

func TestSearchKNN_Error(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "idx",
		Vector:    []float32{0.1},
		K:         10,
	})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchKNN(ctx, &db.KNNQuery{Vector: []float32{0.1}, K: 10})
	if err == nil {
		t.Error("expected error for empty index name")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", K: 10})
	if err == nil {
		t.Error("expected error for empty vector")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", Vector: []float32{0.1}, K: 0})
	if err == nil {
		t.Error("expected error for k=0")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", Vector: []float32{0.1}, K: 5, Offset: -1})
	if err == nil {
		t.Error("expected error for negative offset")
	}
}

func TestSearchList_Success(t *testing.T) {
	s, c := newMockStore(t)

	var got []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			got = cmd
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("match:profile:p2"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"id":"p2"}`)),
			mock.RedisString("match:profile:p1"),
			mock.RedisArray(mock.RedisString("$"), mock.RedisString(`{"id":"p1"}`)),
		)))

	result, err := s.SearchList(context.Background(), &db.ListQuery{
		IndexName: "match:profile:idx",
		Filter:    db.Filter{}.And("owner_id", "c1"),
		SortBy:    "updated_at",
		SortDesc:  true,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(result.Entries))
	}
	if result.Entries[0].Fields["$"] != `{"id":"p2"}` {
		t.Errorf("unexpected first entry %+v", result.Entries[0])
	}
	if got[2] != "@owner_id:{c1}" {
		t.Errorf("query = %q", got[2])
	}
	assertSequence(t, got, "SORTBY", "updated_at", "DESC")
	assertSequence(t, got, "LIMIT", "0", "10")
}

func TestSearchList_Validation(t *testing.T) {
	s := &Store{}
	if _, err := s.SearchList(context.Background(), &db.ListQuery{Limit: 1}); err == nil {
		t.Error("expected error for empty index name")
	}
}

func TestSearchCount_Success(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "@status:{ativo}", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	count, err := s.SearchCount(context.Background(), "idx", db.Filter{}.And("status", "ativo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}
}

func TestSearchCount_Empty(t *testing.T) {
	s, c := newMockStore(t)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "idx", "*", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray()))

	count, err := s.SearchCount(context.Background(), "idx", db.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0, got %d", count)
	}
}

// --- Filter building tests ---

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name string
		f    db.Filter
		want string
	}{
		{"empty", db.Filter{}, ""},
		{"single", db.Filter{}.And("status", "ativo"), "@status:{ativo}"},
		{"multi value", db.Filter{}.And("status", "ativo", "aberta"), "@status:{ativo | aberta}"},
		{"escaped", db.Filter{}.And("owner_id", "a-b c"), `@owner_id:{a\-b\ c}`},
		{
			"negate",
			db.Filter{Tags: []db.TagCondition{{Field: "id", Values: []string{"p1"}, Negate: true}}},
			"-@id:{p1}",
		},
		{
			"skips empty values",
			db.Filter{Tags: []db.TagCondition{{Field: "id"}, {Field: "status", Values: []string{"ativo"}}}},
			"@status:{ativo}",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := buildFilter(tc.f); got != tc.want {
				t.Errorf("buildFilter() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWithScoreField(t *testing.T) {
	in := []string{"id"}
	out := withScoreField(in)
	if len(out) != 2 || out[1] != "__vector_score" {
		t.Errorf("unexpected fields %v", out)
	}
	if len(in) != 1 {
		t.Error("input slice mutated")
	}
	again := withScoreField(out)
	if len(again) != 2 {
		t.Errorf("score field duplicated: %v", again)
	}
}

func TestVectorToBytes(t *testing.T) {
	v := []float32{1.0, 2.0}
	b := vectorToBytes(v)
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
}
