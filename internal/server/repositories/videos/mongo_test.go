package videos

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func videoDoc(id string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "title " + id},
		{Key: "description", Value: "desc"},
		{Key: "filePath", Value: "/uploads/" + id + ".mp4"},
		{Key: "duration", Value: 3.0},
		{Key: "format", Value: "video/mp4"},
		{Key: "size", Value: int64(1024)},
		{Key: "createdAt", Value: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("put", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoRepository(mt.Coll)

		require.NoError(mt, repo.Put(ctx, sampleVideo("a")))
	})

	mt.Run("put duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewMongoRepository(mt.Coll)

		assert.ErrorIs(mt, repo.Put(ctx, sampleVideo("a")), common.ErrDuplicateID)
	})

	mt.Run("get", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, videoDoc("a")))
		repo := NewMongoRepository(mt.Coll)

		got, err := repo.Get(ctx, "a")
		require.NoError(mt, err)
		assert.Equal(mt, "a", got.ID)
		assert.Equal(mt, "/uploads/a.mp4", got.StoredPath)
		assert.Equal(mt, int64(1024), got.SizeBytes)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.Get(ctx, "x")
		assert.ErrorIs(mt, err, common.ErrorNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, videoDoc("a"))
		second := mtest.CreateCursorResponse(1, ns, mtest.NextBatch, videoDoc("b"))
		done := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, second, done)
		repo := NewMongoRepository(mt.Coll)

		items, err := repo.List(ctx)
		require.NoError(mt, err)
		require.Len(mt, items, 2)
		assert.Equal(mt, "a", items[0].ID)
		assert.Equal(mt, "b", items[1].ID)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "acknowledged", Value: true}, {Key: "n", Value: 1}})
		repo := NewMongoRepository(mt.Coll)

		require.NoError(mt, repo.Delete(ctx, "a"))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "acknowledged", Value: true}, {Key: "n", Value: 0}})
		repo := NewMongoRepository(mt.Coll)

		assert.ErrorIs(mt, repo.Delete(ctx, "a"), common.ErrorNotFound)
	})
}
