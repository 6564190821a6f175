package kvstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps every table as a collection of {_id: key, value} documents.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (m *MongoStore) Close() error {
	return m.db.Client().Disconnect(context.Background())
}

func (m *MongoStore) collection(table string) *mongo.Collection {
	return m.db.Collection(table)
}

func (m *MongoStore) Insert(ctx context.Context, table, key, value string) error {
	_, err := m.collection(table).InsertOne(ctx, Record{Key: key, Value: value})
	return wrapMongoError(err)
}

func (m *MongoStore) InsertOrReplace(ctx context.Context, table, key, value string) error {
	filter := bson.D{{Key: "_id", Value: key}}
	opts := options.Replace().SetUpsert(true)
	_, err := m.collection(table).ReplaceOne(ctx, filter, Record{Key: key, Value: value}, opts)
	return wrapMongoError(err)
}

func (m *MongoStore) InsertOrIgnore(ctx context.Context, table, key, value string) error {
	filter := bson.D{{Key: "_id", Value: key}}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{{Key: "value", Value: value}}}}
	opts := options.Update().SetUpsert(true)
	_, err := m.collection(table).UpdateOne(ctx, filter, update, opts)
	// two concurrent upserts of the same key can race on the unique _id
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return wrapMongoError(err)
}

func (m *MongoStore) Update(ctx context.Context, table, key, value string) (int64, error) {
	filter := bson.D{{Key: "_id", Value: key}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "value", Value: value}}}}
	res, err := m.collection(table).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, wrapMongoError(err)
	}
	return res.MatchedCount, nil
}

func (m *MongoStore) Delete(ctx context.Context, table, key string) (int64, error) {
	res, err := m.collection(table).DeleteOne(ctx, bson.D{{Key: "_id", Value: key}})
	if err != nil {
		return 0, wrapMongoError(err)
	}
	return res.DeletedCount, nil
}

func (m *MongoStore) Get(ctx context.Context, table, key string) (Record, bool, error) {
	var rec Record
	err := m.collection(table).FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

func (m *MongoStore) Scan(ctx context.Context, table string) ([]Record, error) {
	return m.find(ctx, table, bson.D{}, options.Find())
}

func (m *MongoStore) Range(ctx context.Context, table string, cursor Cursor) ([]Record, error) {
	if err := cursor.validate(); err != nil {
		return nil, err
	}

	bounds := bson.D{}
	if cursor.StartingAfter != nil {
		bounds = append(bounds, bson.E{Key: "$gt", Value: *cursor.StartingAfter})
	}
	if cursor.EndingBefore != nil {
		bounds = append(bounds, bson.E{Key: "$lt", Value: *cursor.EndingBefore})
	}

	filter := bson.D{}
	if len(bounds) > 0 {
		filter = bson.D{{Key: "_id", Value: bounds}}
	}

	direction := -1
	if cursor.Ascending {
		direction = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: direction}}).
		SetLimit(int64(cursor.Limit))

	return m.find(ctx, table, filter, opts)
}

func (m *MongoStore) find(ctx context.Context, table string, filter bson.D, opts *options.FindOptions) ([]Record, error) {
	cur, err := m.collection(table).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []Record
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func wrapMongoError(err error) error {
	if err == nil {
		return nil
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrKeyAlreadyExists, err)
	}

	return err
}
