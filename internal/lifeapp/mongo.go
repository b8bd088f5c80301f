package lifeapp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores applications in a MongoDB collection. Ids are minted as
// UUID strings before insert so the URL of a new application is known without
// a round trip.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	idx := mongo.IndexModel{Keys: bson.D{{Key: FieldUserID, Value: 1}, {Key: FieldCreatedAt, Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, userID int64, payload Application) (string, error) {
	doc := stripReserved(payload)
	now := time.Now().UTC()
	id := uuid.NewString()
	doc[FieldID] = id
	doc[FieldUserID] = userID
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	if _, ok := doc[FieldStatus]; !ok {
		doc[FieldStatus] = StatusDraft
	}
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (Application, error) {
	var doc Application
	err := m.col.FindOne(ctx, bson.M{FieldID: id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (m *MongoRepo) ListByUser(ctx context.Context, userID int64) ([]Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: FieldCreatedAt, Value: -1}})
	cur, err := m.col.Find(ctx, bson.M{FieldUserID: userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Application{}
	for cur.Next(ctx) {
		var doc Application
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Patch(ctx context.Context, id string, fields Application) error {
	set := stripReserved(fields)
	set[FieldUpdatedAt] = time.Now().UTC()
	res, err := m.col.UpdateOne(ctx, bson.M{FieldID: id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
