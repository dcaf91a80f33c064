package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB database. Documents carry an "id"
// string field (hex ObjectID) with a unique index per collection, keeping
// gateway ids decoupled from Mongo's own _id.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (m *MongoStore) col(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// EnsureIndexes creates the unique "id" index for the given collections.
// Idempotent; called once at startup.
func (m *MongoStore) EnsureIndexes(ctx context.Context, collections ...string) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)}
	for _, c := range collections {
		if _, err := m.col(c).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("ensure index on %s: %w", c, err)
		}
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := m.col(collection).FindOne(ctx, bson.M{"id": id}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo get %s/%s: %w", collection, id, err)
	}
	return fromBSON(raw), nil
}

func (m *MongoStore) List(ctx context.Context, collection string, opts ListOptions) ([]Document, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	findOpts := options.Find().SetLimit(int64(limit))
	if opts.OrderBy != "" {
		dir := 1
		if opts.Direction == "desc" {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.OrderBy, Value: dir}})
	}
	cur, err := m.col(collection).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collection, err)
	}
	defer cur.Close(ctx)
	out := []Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("mongo decode %s: %w", collection, err)
		}
		out = append(out, fromBSON(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo cursor %s: %w", collection, err)
	}
	return out, nil
}

func (m *MongoStore) Create(ctx context.Context, collection string, fields Document) (string, error) {
	id := primitive.NewObjectID().Hex()
	doc := bson.M{"id": id}
	for k, v := range fields {
		if IsDelete(v) {
			continue
		}
		doc[k] = v
	}
	if _, err := m.col(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("mongo create %s: %w", collection, err)
	}
	return id, nil
}

func (m *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	set := bson.M{}
	unset := bson.M{}
	for k, v := range fields {
		if IsDelete(v) {
			unset[k] = ""
			continue
		}
		set[k] = v
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		return nil
	}
	res, err := m.col(collection).UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("mongo update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := m.col(collection).DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("mongo delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (m *MongoStore) MakeReference(collection, id string) Reference {
	return Reference{Collection: collection, ID: id}
}

func (m *MongoStore) Follow(ctx context.Context, ref Reference) (Document, error) {
	return m.Get(ctx, ref.Collection, ref.ID)
}

// fromBSON converts a decoded bson.M into a Document: drops Mongo's _id,
// promotes the stored "id" field, turns DateTime back into time.Time and
// {_refCollection,_refId} sub-documents back into typed References.
func fromBSON(raw bson.M) Document {
	out := make(Document, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		out[k] = rehydrate(v)
	}
	return out
}

func rehydrate(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time()
	case primitive.M:
		return rehydrateMap(map[string]interface{}(t))
	case primitive.D:
		m := make(map[string]interface{}, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return rehydrateMap(m)
	case primitive.A:
		arr := make([]interface{}, len(t))
		for i, e := range t {
			arr[i] = rehydrate(e)
		}
		return arr
	default:
		return v
	}
}

func rehydrateMap(m map[string]interface{}) interface{} {
	if len(m) == 2 {
		col, okC := m["_refCollection"].(string)
		id, okI := m["_refId"].(string)
		if okC && okI {
			return Reference{Collection: col, ID: id}
		}
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = rehydrate(v)
	}
	return out
}
