package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"happy-thoughts/internal/domains/thought/model"
)

// =====================================================
// MONGO REPOSITORY IMPLEMENTATION
// =====================================================

const (
	thoughtsCollection = "thoughts"
	countersCollection = "counters"
)

// thoughtDocument adds the insertion sequence that breaks created_at ties.
// BSON datetimes keep milliseconds only.
type thoughtDocument struct {
	model.Thought `bson:",inline"`
	Seq           int64 `bson:"seq"`
}

type mongoThoughtRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewMongoThoughtRepository(db *mongo.Database) ThoughtRepository {
	return &mongoThoughtRepository{
		coll:     db.Collection(thoughtsCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureThoughtIndexes creates the indexes the listing queries rely on.
func EnsureThoughtIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(thoughtsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "seq", Value: -1}}},
		{Keys: bson.D{{Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "hearts", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create thought indexes: %w", err)
	}
	return nil
}

// =====================================================
// CRUD
// =====================================================

func (r *mongoThoughtRepository) Insert(ctx context.Context, thought *model.Thought) error {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return err
	}

	_, err = r.coll.InsertOne(ctx, thoughtDocument{Thought: *thought, Seq: seq})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicateThought
		}
		return fmt.Errorf("failed to insert thought: %w", err)
	}
	return nil
}

func (r *mongoThoughtRepository) FindByID(ctx context.Context, id string) (*model.Thought, error) {
	var thought model.Thought
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&thought)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrThoughtNotFound
		}
		return nil, fmt.Errorf("failed to get thought: %w", err)
	}
	return &thought, nil
}

// Update rewrites the mutable fields; seq and owner_id are fixed at insert.
func (r *mongoThoughtRepository) Update(ctx context.Context, thought *model.Thought) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": thought.ID}, bson.M{"$set": bson.M{
		"message":    thought.Message,
		"tags":       nonNil(thought.Tags),
		"hearts":     thought.Hearts,
		"likes":      nonNil(thought.Likes),
		"revision":   thought.Revision,
		"updated_at": thought.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update thought: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrThoughtNotFound
	}
	return nil
}

func (r *mongoThoughtRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete thought: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrThoughtNotFound
	}
	return nil
}

// =====================================================
// QUERIES
// =====================================================

func (r *mongoThoughtRepository) FindAll(ctx context.Context, opts FindOptions) ([]*model.Thought, error) {
	findOpts := options.Find().SetSort(sortOrder(opts.Newest))
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := r.coll.Find(ctx, buildFilter(opts.OwnerID, opts.Tag), findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list thoughts: %w", err)
	}
	defer cursor.Close(ctx)

	thoughts := make([]*model.Thought, 0)
	if err := cursor.All(ctx, &thoughts); err != nil {
		return nil, fmt.Errorf("failed to decode thoughts: %w", err)
	}
	return thoughts, nil
}

func (r *mongoThoughtRepository) Count(ctx context.Context, opts CountOptions) (int, error) {
	n, err := r.coll.CountDocuments(ctx, buildFilter(opts.OwnerID, opts.Tag))
	if err != nil {
		return 0, fmt.Errorf("failed to count thoughts: %w", err)
	}
	return int(n), nil
}

func (r *mongoThoughtRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

// Owner IDs and tags are stored in canonical form, so exact matches suffice.
func buildFilter(ownerID, tag string) bson.M {
	filter := bson.M{}
	if ownerID != "" {
		filter["owner_id"] = model.NormalizeUserID(ownerID)
	}
	if tag != "" {
		filter["tags"] = model.NormalizeTag(tag)
	}
	return filter
}

// sortOrder is insertion order, or created_at descending with later inserts
// first on ties.
func sortOrder(newest bool) bson.D {
	if !newest {
		return bson.D{{Key: "seq", Value: 1}}
	}
	return bson.D{
		{Key: "created_at", Value: -1},
		{Key: "seq", Value: -1},
	}
}

// nextSeq atomically increments the thoughts counter.
func (r *mongoThoughtRepository) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": thoughtsCollection},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate thought sequence: %w", err)
	}
	return counter.Value, nil
}
