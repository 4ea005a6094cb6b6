package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo bundles the client and the named collections the services use.
// Constructed once in main and injected; nothing in this package is global.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database

	Users         *mongo.Collection
	Posts         *mongo.Collection
	Comments      *mongo.Collection
	Likes         *mongo.Collection
	Follows       *mongo.Collection
	Notifications *mongo.Collection
	PushSubs      *mongo.Collection
	Meals         *mongo.Collection
}

// Connect dials MongoDB, pings it, and resolves the collections.
func Connect(uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &Mongo{
		Client:        client,
		DB:            db,
		Users:         db.Collection("users"),
		Posts:         db.Collection("posts"),
		Comments:      db.Collection("comments"),
		Likes:         db.Collection("likes"),
		Follows:       db.Collection("follows"),
		Notifications: db.Collection("notifications"),
		PushSubs:      db.Collection("push_subscriptions"),
		Meals:         db.Collection("meals"),
	}, nil
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call on
// every startup; Mongo treats an existing identical index as a no-op.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	models := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{m.Users, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{m.Likes, mongo.IndexModel{
			Keys:    bson.D{{Key: "targetType", Value: 1}, {Key: "targetId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{m.Follows, mongo.IndexModel{
			Keys:    bson.D{{Key: "follower", Value: 1}, {Key: "following", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		// Notification dedup lookup: (type, recipient, sender, target) within a window.
		{m.Notifications, mongo.IndexModel{
			Keys: bson.D{
				{Key: "type", Value: 1},
				{Key: "recipient", Value: 1},
				{Key: "sender", Value: 1},
				{Key: "target.kind", Value: 1},
				{Key: "target.id", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		}},
		{m.Notifications, mongo.IndexModel{
			Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{m.PushSubs, mongo.IndexModel{
			Keys:    bson.D{{Key: "sub.endpoint", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{m.Posts, mongo.IndexModel{
			Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{m.Posts, mongo.IndexModel{
			Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{m.Comments, mongo.IndexModel{
			Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}},
		}},
		{m.Meals, mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "ateAt", Value: -1}},
		}},
	}

	for _, im := range models {
		if _, err := im.coll.Indexes().CreateOne(ctx, im.model); err != nil {
			return err
		}
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
