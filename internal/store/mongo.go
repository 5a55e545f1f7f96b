package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo implements Store on a MongoDB collection. One client is opened at run
// start and released at run end regardless of outcome.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// ConnectMongo opens a client against uri and ensures the unique index on url
// that upserts rely on. Connect or index failures are fatal to the run.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure url index: %w", err)
	}
	return &Mongo{client: client, coll: coll}, nil
}

// Close releases the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.client == nil {
		return nil
	}
	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

func (m *Mongo) UpsertScraped(ctx context.Context, a Article) error {
	// $set deliberately includes originalContent and isUpdated: re-scraping a
	// previously augmented URL refreshes the record and returns it to pending.
	update := bson.M{"$set": bson.M{
		"title":           a.Title,
		"url":             a.URL,
		"content":         a.Content,
		"originalContent": a.OriginalContent,
		"date":            a.Date,
		"isUpdated":       false,
	}}
	_, err := m.coll.UpdateOne(ctx, bson.M{"url": a.URL}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert article %s: %w", a.URL, err)
	}
	return nil
}

func (m *Mongo) FindByState(ctx context.Context, s State) ([]Article, error) {
	cur, err := m.coll.Find(ctx, bson.M{"isUpdated": s == StateAugmented})
	if err != nil {
		return nil, fmt.Errorf("find articles by state %s: %w", s, err)
	}
	var out []Article
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return out, nil
}

func (m *Mongo) MarkAugmented(ctx context.Context, url string, content string, refs []Reference) error {
	update := bson.M{"$set": bson.M{
		"content":    content,
		"isUpdated":  true,
		"references": refs,
	}}
	res, err := m.coll.UpdateOne(ctx, bson.M{"url": url}, update)
	if err != nil {
		return fmt.Errorf("mark augmented %s: %w", url, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mark augmented %s: article not found", url)
	}
	return nil
}

func (m *Mongo) List(ctx context.Context) ([]Article, error) {
	// Insertion recency via _id descending.
	cur, err := m.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	var out []Article
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return out, nil
}
