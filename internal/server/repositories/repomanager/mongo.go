package repomanager

import (
	"context"

	"github.com/dmitrijs2005/clipvault/internal/server/repositories/videos"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoConnect is a seam for tests.
var mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func openMongo(ctx context.Context, uri, database, collection string) (*videos.MongoRepository, func(context.Context) error, error) {
	client, err := mongoConnect(ctx, uri)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}

	repo := videos.NewMongoRepository(client.Database(database).Collection(collection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return repo, client.Disconnect, nil
}
