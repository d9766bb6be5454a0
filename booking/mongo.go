package booking

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookingsCollection = "bookings"

// MongoStore persists bookings in a document collection with a unique index
// on paymentRef, so duplicate finalization attempts collapse into the first
// inserted document.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates the store and ensures the paymentRef unique index
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	col := db.Collection(bookingsCollection)
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "paymentRef", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoStore{col: col}, nil
}

// Create inserts the booking; a duplicate-key error means the payment was
// already finalized and the stored booking is returned instead.
func (s *MongoStore) Create(ctx context.Context, b Booking) (*Booking, error) {
	_, err := s.col.InsertOne(ctx, b)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.FindByPaymentRef(ctx, b.PaymentRef)
		}
		return nil, err
	}
	return &b, nil
}

// FindByPaymentRef looks up a booking by its gateway payment reference
func (s *MongoStore) FindByPaymentRef(ctx context.Context, paymentRef string) (*Booking, error) {
	var b Booking
	err := s.col.FindOne(ctx, bson.M{"paymentRef": paymentRef}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}
