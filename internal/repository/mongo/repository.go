package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/domain"
)

type purchaseDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	UserID    string             `bson:"userId"`
	Price     float64            `bson:"price"`
	Timestamp time.Time          `bson:"timestamp"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *purchaseDocument) toRecord() *domain.PurchaseRecord {
	return &domain.PurchaseRecord{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		UserID:    d.UserID,
		Price:     d.Price,
		Timestamp: d.Timestamp.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// newestFirst sorts by createdAt and then by _id, whose leading timestamp and
// counter make it follow insertion order
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// Repository implements PurchaseRepository for MongoDB
type Repository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

// NewRepository creates a new MongoDB repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return newRepository(client.Collection(), log)
}

func newRepository(collection *mongo.Collection, log *zap.Logger) *Repository {
	return &Repository{
		collection: collection,
		log:        log,
	}
}

// InitSchema creates the indexes used by the read queries
func (r *Repository) InitSchema(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create purchase indexes: %w", err)
	}

	r.log.Info("MongoDB indexes initialized successfully")
	return nil
}

// InsertPurchase inserts a record and sets its ID from the generated ObjectID
func (r *Repository) InsertPurchase(ctx context.Context, record *domain.PurchaseRecord) error {
	doc := purchaseDocument{
		Username:  record.Username,
		UserID:    record.UserID,
		Price:     record.Price,
		Timestamp: record.Timestamp,
		CreatedAt: record.CreatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = id.Hex()
	}
	return nil
}

// FindByUser returns the purchases of one user
func (r *Repository) FindByUser(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error) {
	return r.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(newestFirst))
}

// FindAll returns the most recent purchases, at most limit of them
func (r *Repository) FindAll(ctx context.Context, limit int) ([]*domain.PurchaseRecord, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
}

func (r *Repository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.PurchaseRecord, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			r.log.Error("Failed to close purchases cursor", zap.Error(err))
		}
	}()

	var docs []purchaseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode purchases: %w", err)
	}

	records := make([]*domain.PurchaseRecord, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toRecord())
	}
	return records, nil
}

// Ping checks if MongoDB answers the ping admin command
func (r *Repository) Ping(ctx context.Context) error {
	return ping(ctx, r.collection.Database().Client())
}

// Close disconnects from MongoDB
func (r *Repository) Close() error {
	return disconnect(r.collection.Database().Client(), r.log)
}
