package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MalanSathya/terraformcoder-ai/pkg/errors"
)

const (
	usersCollection       = "users"
	generationsCollection = "generations"
)

// MongoStore persists users and generation history in MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to the given URI and prepares the collections.
// A unique index on user email enforces one account per address.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pinging mongodb")
	}

	db := client.Database(database)
	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating email index")
	}
	_, err = db.Collection(generationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating history index")
	}

	return &MongoStore{client: client, db: db}, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u User) error {
	u.Email = strings.ToLower(u.Email)
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return errors.New(errors.ErrCodeUserExists, "email already registered")
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "inserting user")
	}
	return nil
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return User{}, errors.New(errors.ErrCodeUserNotFound, "no account for %s", email)
	}
	if err != nil {
		return User{}, errors.Wrap(errors.ErrCodeInternal, err, "querying user by email")
	}
	return u, nil
}

func (s *MongoStore) UserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return User{}, errors.New(errors.ErrCodeUserNotFound, "no such user")
	}
	if err != nil {
		return User{}, errors.Wrap(errors.ErrCodeInternal, err, "querying user by id")
	}
	return u, nil
}

func (s *MongoStore) SaveGeneration(ctx context.Context, g Generation) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if _, err := s.db.Collection(generationsCollection).InsertOne(ctx, g); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "inserting generation")
	}
	return nil
}

func (s *MongoStore) GenerationsByUser(ctx context.Context, userID string, limit int) ([]Generation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.db.Collection(generationsCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "querying history")
	}
	defer cur.Close(ctx)

	out := make([]Generation, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decoding history")
	}
	return out, nil
}

func (s *MongoStore) GenerationByID(ctx context.Context, id string) (Generation, error) {
	var g Generation
	err := s.db.Collection(generationsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return Generation{}, errors.New(errors.ErrCodeGenerationNotFound, "no such generation")
	}
	if err != nil {
		return Generation{}, errors.Wrap(errors.ErrCodeInternal, err, "querying generation")
	}
	return g, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
