package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection      *mongo.Collection
	ProductCollection   *mongo.Collection
	EducationCollection *mongo.Collection
	OrderCollection     *mongo.Collection
	CategoryCollection  *mongo.Collection
	Client              *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "agrodb"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database(dbName).Collection("users")
	ProductCollection = Client.Database(dbName).Collection("products")
	EducationCollection = Client.Database(dbName).Collection("education")
	OrderCollection = Client.Database(dbName).Collection("orders")
	CategoryCollection = Client.Database(dbName).Collection("categories")

	if err := ensureUserIndexes(UserCollection); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
}

// ensureUserIndexes enforces email uniqueness at the collection level,
// so two near-concurrent writes cannot both claim the same address.
func ensureUserIndexes(coll *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := coll.Indexes().CreateOne(context.TODO(), indexModel)
	return err
}
