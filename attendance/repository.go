package attendance

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const attendanceCollection = "attendance"

// MongoRepository stores attendance records in a document collection with a
// unique (employeeId, date) index.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates the repository and ensures its indexes
func NewMongoRepository(ctx context.Context, db *mongo.Database) (*MongoRepository, error) {
	col := db.Collection(attendanceCollection)
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "employeeId", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoRepository{col: col}, nil
}

// Insert adds a day record; a duplicate key maps to ErrAlreadyCheckedIn
func (r *MongoRepository) Insert(ctx context.Context, rec Record) error {
	_, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyCheckedIn
		}
		return err
	}
	return nil
}

// SetCheckOut stamps the check-out time on the day's open record
func (r *MongoRepository) SetCheckOut(ctx context.Context, employeeID, date string, at time.Time) (*Record, error) {
	filter := bson.M{"employeeId": employeeID, "date": date}
	update := bson.M{"$set": bson.M{"checkOut": at}}

	var rec Record
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotCheckedIn
		}
		return nil, err
	}
	return &rec, nil
}

// ListMonth returns an employee's records whose date falls in the given
// month ("2006-01"), ordered by date.
func (r *MongoRepository) ListMonth(ctx context.Context, employeeID, month string) ([]Record, error) {
	filter := bson.M{
		"employeeId": employeeID,
		"date":       bson.M{"$regex": "^" + month},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
