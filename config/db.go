package config

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client             *mongo.Client
	UserCollection     *mongo.Collection
	AdminCollection    *mongo.Collection
	PropertyCollection *mongo.Collection
	ImageCollection    *mongo.Collection
	WishlistCollection *mongo.Collection
	VisitCollection    *mongo.Collection
	SettingCollection  *mongo.Collection
	MessageCollection  *mongo.Collection
	TemplateCollection *mongo.Collection
	QueueCollection    *mongo.Collection
)

func ConnectDB(uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping failed: %v", err)
	}

	log.Println("Connected to MongoDB")
	return client, nil
}

func InitCollections(client *mongo.Client, dbName string) {
	Client = client
	db := client.Database(dbName)
	UserCollection = db.Collection("users")
	AdminCollection = db.Collection("admin_users")
	PropertyCollection = db.Collection("properties")
	ImageCollection = db.Collection("property_images")
	WishlistCollection = db.Collection("user_wishlist")
	VisitCollection = db.Collection("property_visits")
	SettingCollection = db.Collection("site_settings")
	MessageCollection = db.Collection("contact_messages")
	TemplateCollection = db.Collection("property_templates")
	QueueCollection = db.Collection("post_queue")
}

// EnsureIndexes creates the unique indexes the application relies on:
// user/admin email, property public id, site-setting key and the
// (user_email, property_id) wishlist pair.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := AdminCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("admin email index: %w", err)
	}
	if _, err := PropertyCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("property id index: %w", err)
	}
	if _, err := SettingCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "key", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("settings key index: %w", err)
	}
	if _, err := WishlistCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_email", Value: 1}, {Key: "property_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("wishlist pair index: %w", err)
	}
	return nil
}

func CloseDBConnection(client *mongo.Client) {
	if err := client.Disconnect(context.TODO()); err != nil {
		log.Fatalf("Error closing database connection: %v", err)
	}
	log.Println("MongoDB connection closed")
}
