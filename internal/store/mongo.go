package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	mongoCreatedAt = "createdAt"
	mongoUpdatedAt = "updatedAt"
)

// MongoStore implements Store on a MongoDB database. Each collection maps to
// a MongoDB collection of the same name; documents carry an ObjectID _id and
// createdAt/updatedAt dates beside the entity fields.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to uri and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) EnsureUnique(ctx context.Context, collection, field string) error {
	if err := checkName("field", field); err != nil {
		return err
	}
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique index on %s.%s: %w", collection, field, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

// errNoMatch marks a filter that cannot match any document, such as an id
// that is not an ObjectID.
var errNoMatch = errors.New("filter matches nothing")

func toBSONFilter(f Filter) (bson.D, error) {
	filter := bson.D{}
	if f.ID != "" {
		oid, err := bson.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, errNoMatch
		}
		filter = append(filter, bson.E{Key: "_id", Value: oid})
	}
	for _, k := range sortedKeys(f.Fields) {
		if err := checkName("field", k); err != nil {
			return nil, err
		}
		filter = append(filter, bson.E{Key: k, Value: f.Fields[k]})
	}
	return filter, nil
}

func fromBSON(m bson.M) (Document, error) {
	d := Document{Fields: map[string]string{}}
	for k, v := range m {
		switch k {
		case "_id":
			oid, ok := v.(bson.ObjectID)
			if !ok {
				return Document{}, fmt.Errorf("unexpected _id type %T", v)
			}
			d.ID = oid.Hex()
		case mongoCreatedAt:
			d.CreatedAt = toTime(v)
		case mongoUpdatedAt:
			d.UpdatedAt = toTime(v)
		default:
			if s, ok := v.(string); ok {
				d.Fields[k] = s
			}
		}
	}
	return d, nil
}

func toTime(v any) time.Time {
	switch t := v.(type) {
	case bson.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	default:
		return time.Time{}
	}
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	f, err := toBSONFilter(filter)
	if errors.Is(err, errNoMatch) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}

	var m bson.M
	err = c.coll.FindOne(ctx, f, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to find document in %s: %w", c.coll.Name(), err)
	}
	return fromBSON(m)
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	f, err := toBSONFilter(filter)
	if errors.Is(err, errNoMatch) {
		return []Document{}, nil
	}
	if err != nil {
		return nil, err
	}

	cursor, err := c.coll.Find(ctx, f, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []Document{}
	for cursor.Next(ctx) {
		var m bson.M
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		d, err := fromBSON(m)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

func (c *mongoCollection) Insert(ctx context.Context, fields map[string]string) (Document, error) {
	if err := checkFields(fields); err != nil {
		return Document{}, err
	}
	oid := bson.NewObjectID()
	// Mongo stores dates at millisecond precision.
	now := time.Now().UTC().Truncate(time.Millisecond)

	doc := bson.D{{Key: "_id", Value: oid}}
	for _, k := range sortedKeys(fields) {
		doc = append(doc, bson.E{Key: k, Value: fields[k]})
	}
	doc = append(doc,
		bson.E{Key: mongoCreatedAt, Value: now},
		bson.E{Key: mongoUpdatedAt, Value: now},
	)

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Document{}, fmt.Errorf("insert into %s: %w", c.coll.Name(), ErrDuplicate)
		}
		return Document{}, fmt.Errorf("failed to insert document into %s: %w", c.coll.Name(), err)
	}
	return Document{
		ID:        oid.Hex(),
		Fields:    copyFields(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *mongoCollection) Update(ctx context.Context, filter Filter, fields map[string]string) (Document, error) {
	if err := checkFields(fields); err != nil {
		return Document{}, err
	}
	f, err := toBSONFilter(filter)
	if errors.Is(err, errNoMatch) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}

	set := bson.D{}
	for _, k := range sortedKeys(fields) {
		set = append(set, bson.E{Key: k, Value: fields[k]})
	}
	set = append(set, bson.E{Key: mongoUpdatedAt, Value: time.Now().UTC()})

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	var m bson.M
	err = c.coll.FindOneAndUpdate(ctx, f, bson.D{{Key: "$set", Value: set}}, opts).Decode(&m)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return Document{}, ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return Document{}, fmt.Errorf("update %s: %w", c.coll.Name(), ErrDuplicate)
	case err != nil:
		return Document{}, fmt.Errorf("failed to update document in %s: %w", c.coll.Name(), err)
	}
	return fromBSON(m)
}

func (c *mongoCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	f, err := toBSONFilter(filter)
	if errors.Is(err, errNoMatch) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	result, err := c.coll.DeleteMany(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents from %s: %w", c.coll.Name(), err)
	}
	return result.DeletedCount, nil
}

var _ Store = (*MongoStore)(nil)
