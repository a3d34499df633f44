// store/mongo.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"camops/models"
)

// MongoStore is the production Store, one collection per entity plus a
// counters collection for sequential ids.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName)}
}

func (m *MongoStore) Mode() string { return "mongo" }

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoStore) NextID(ctx context.Context, prefix string) (string, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := m.db.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": prefix},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("next id for %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%03d", prefix, counter.Seq), nil
}

// Commit applies the change set inside a session transaction. Standalone
// Mongo deployments reject transactions (IllegalOperation, code 20); in that
// case the ops are applied sequentially, which matches the pre-transaction
// behavior of the system.
func (m *MongoStore) Commit(ctx context.Context, cs *ChangeSet) error {
	if cs.Empty() {
		return nil
	}

	session, err := m.client.StartSession()
	if err != nil {
		return m.applyAll(ctx, cs)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, m.applyAll(sc, cs)
	})
	if err != nil {
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
			log.Printf("mongo: transactions unsupported, applying %d ops sequentially", len(cs.Ops()))
			return m.applyAll(ctx, cs)
		}
		return err
	}
	return nil
}

func (m *MongoStore) applyAll(ctx context.Context, cs *ChangeSet) error {
	for _, op := range cs.Ops() {
		coll := m.db.Collection(string(op.Coll))
		if op.Doc == nil {
			if _, err := coll.DeleteOne(ctx, bson.M{"_id": op.ID}); err != nil {
				return fmt.Errorf("delete %s/%s: %w", op.Coll, op.ID, err)
			}
			continue
		}
		_, err := coll.ReplaceOne(ctx, bson.M{"_id": op.ID}, op.Doc,
			options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("put %s/%s: %w", op.Coll, op.ID, err)
		}
	}
	return nil
}

func (m *MongoStore) find(ctx context.Context, coll Collection, filter bson.M, sortDoc bson.D, out interface{}) error {
	opts := options.Find()
	if sortDoc != nil {
		opts.SetSort(sortDoc)
	}
	cursor, err := m.db.Collection(string(coll)).Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("%s find: %w", coll, err)
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (m *MongoStore) findOne(ctx context.Context, coll Collection, filter bson.M, out interface{}) error {
	err := m.db.Collection(string(coll)).FindOne(ctx, filter).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (m *MongoStore) Workers(ctx context.Context) ([]models.Worker, error) {
	var out []models.Worker
	err := m.find(ctx, CollWorkers, bson.M{}, bson.D{{Key: "_id", Value: 1}}, &out)
	return out, err
}

func (m *MongoStore) Worker(ctx context.Context, id string) (*models.Worker, error) {
	var w models.Worker
	if err := m.findOne(ctx, CollWorkers, bson.M{"_id": id}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (m *MongoStore) Cameras(ctx context.Context) ([]models.Camera, error) {
	var out []models.Camera
	err := m.find(ctx, CollCameras, bson.M{}, bson.D{{Key: "_id", Value: 1}}, &out)
	return out, err
}

func (m *MongoStore) Camera(ctx context.Context, id string) (*models.Camera, error) {
	var c models.Camera
	if err := m.findOne(ctx, CollCameras, bson.M{"_id": id}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *MongoStore) Tournaments(ctx context.Context) ([]models.Tournament, error) {
	var out []models.Tournament
	err := m.find(ctx, CollTournaments, bson.M{}, bson.D{{Key: "date", Value: 1}}, &out)
	return out, err
}

func (m *MongoStore) Tournament(ctx context.Context, id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := m.findOne(ctx, CollTournaments, bson.M{"_id": id}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *MongoStore) Shipments(ctx context.Context) ([]models.Shipment, error) {
	var out []models.Shipment
	err := m.find(ctx, CollShipments, bson.M{}, bson.D{{Key: "_id", Value: 1}}, &out)
	return out, err
}

func (m *MongoStore) Shipment(ctx context.Context, id string) (*models.Shipment, error) {
	var s models.Shipment
	if err := m.findOne(ctx, CollShipments, bson.M{"_id": id}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MongoStore) History(ctx context.Context) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	err := m.find(ctx, CollHistory, bson.M{}, bson.D{{Key: "date", Value: 1}}, &out)
	return out, err
}

func (m *MongoStore) HistoryForCamera(ctx context.Context, cameraID string) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	err := m.find(ctx, CollHistory, bson.M{"cameraId": cameraID}, bson.D{{Key: "date", Value: 1}}, &out)
	return out, err
}

func (m *MongoStore) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := m.find(ctx, CollUsers, bson.M{}, bson.D{{Key: "_id", Value: 1}}, &out)
	return out, err
}

func (m *MongoStore) User(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := m.findOne(ctx, CollUsers, bson.M{"_id": id}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *MongoStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	filter := bson.M{"email": bson.M{"$regex": "^" + email + "$", "$options": "i"}}
	if err := m.findOne(ctx, CollUsers, filter, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *MongoStore) LoginHistory(ctx context.Context) ([]models.LoginRecord, error) {
	var out []models.LoginRecord
	err := m.find(ctx, CollLoginHistory, bson.M{}, bson.D{{Key: "createdAt", Value: -1}}, &out)
	return out, err
}
