// Package mongostore implements the user and workout stores on MongoDB.
// Collections and fields follow Mongoose conventions (users, workouts,
// createdAt/updatedAt) so databases written by a Mongoose backend load as is.
package mongostore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultDatabase = "ai-fitness-coach"
	usersColl       = "users"
	workoutsColl    = "workouts"
	connectTimeout  = 10 * time.Second
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, verifies the connection and ensures indexes. The
// database name comes from the URI path, defaulting to ai-fitness-coach.
func Open(ctx context.Context, uri string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := &DB{client: client, db: client.Database(databaseName(uri))}
	if err := d.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return d, nil
}

func databaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabase
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(usersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users.email index: %w", err)
	}

	_, err = d.db.Collection(workoutsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create workouts.user index: %w", err)
	}
	return nil
}

func (d *DB) Users() *UserStore {
	return &UserStore{coll: d.db.Collection(usersColl), now: time.Now}
}

func (d *DB) Workouts() *WorkoutStore {
	return &WorkoutStore{coll: d.db.Collection(workoutsColl), now: time.Now}
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
