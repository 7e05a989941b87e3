package redis

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
)

const postingIndex = "match:posting:idx"

func postingIndexDef(algo db.VectorAlgorithm) *db.IndexDefinition {
	return db.NewIndex(postingIndex).
		OnJSON().
		Prefix("match:posting:").
		Tag("$.status_canonical").As("status").
		NumericSortable("$.updated_unix").As("updated_at").
		Vector("$.embedding", db.VectorSpec{Algo: algo, Dim: 1536, M: 16, EFConstruct: 200}).As("embedding").
		MustBuild()
}

func TestCreateArgs_HNSW(t *testing.T) {
	args, err := createArgs(postingIndexDef(db.VectorHNSW))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		postingIndex, "ON", "JSON", "PREFIX", "1", "match:posting:", "SCHEMA",
		"$.status_canonical", "AS", "status", "TAG",
		"$.updated_unix", "AS", "updated_at", "NUMERIC", "SORTABLE",
		"$.embedding", "AS", "embedding", "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32", "DIM", "1536", "DISTANCE_METRIC", "COSINE", "M", "16", "EF_CONSTRUCTION", "200",
	}
	if !slices.Equal(args, want) {
		t.Errorf("args =\n%v\nwant\n%v", args, want)
	}
}

func TestCreateArgs_FlatIgnoresGraphParams(t *testing.T) {
	args, err := createArgs(postingIndexDef(db.VectorFlat))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertSequence(t, args, "VECTOR", "FLAT", "6", "TYPE", "FLOAT32", "DIM", "1536", "DISTANCE_METRIC", "COSINE")
	if slices.Contains(args, "EF_CONSTRUCTION") {
		t.Errorf("FLAT index must not carry HNSW params: %v", args)
	}
}

func TestCreateArgs_Invalid(t *testing.T) {
	if _, err := createArgs(nil); err == nil {
		t.Error("expected error for nil definition")
	}
	if _, err := createArgs(&db.IndexDefinition{Name: "idx"}); err == nil {
		t.Error("expected error for empty fields")
	}
	bad := &db.IndexDefinition{Name: "idx", Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldType(99)}}}
	if _, err := createArgs(bad); err == nil {
		t.Error("expected error for unknown field type")
	}
}

func TestCreateIndex(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" && cmd[1] == postingIndex
		})).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.CreateIndex(context.Background(), postingIndexDef(db.VectorHNSW)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("Index already exists")))

	err := s.CreateIndex(context.Background(), postingIndexDef(db.VectorHNSW))
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	err := s.CreateIndex(context.Background(), postingIndexDef(db.VectorHNSW))
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestDropIndex(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", postingIndex)).
		Return(mock.Result(mock.RedisString("OK")))

	if err := s.DropIndex(context.Background(), postingIndex); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_Unknown(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", postingIndex)).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	if err := s.DropIndex(context.Background(), postingIndex); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	s, c := newMockStore(t)
	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", postingIndex)).
			Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString(postingIndex)))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", postingIndex)).
			Return(mock.Result(mock.RedisError("Unknown Index name"))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", postingIndex)).
			Return(mock.ErrorResult(context.Canceled)),
	)

	ctx := context.Background()
	if ok, err := s.IndexExists(ctx, postingIndex); err != nil || !ok {
		t.Errorf("first probe = %v, %v; want true, nil", ok, err)
	}
	if ok, err := s.IndexExists(ctx, postingIndex); err != nil || ok {
		t.Errorf("second probe = %v, %v; want false, nil", ok, err)
	}
	if _, err := s.IndexExists(ctx, postingIndex); !isDBError(err) {
		t.Errorf("third probe err = %v; want db.Error", err)
	}
}
