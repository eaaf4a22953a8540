package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amie-dev/cloudinary-saas/internal/domain"
	"github.com/Amie-dev/cloudinary-saas/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const videoCollectionName = "videos"

// videoDocument is the stored shape of a Video.
type videoDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    *string            `bson:"description,omitempty"`
	PublicID       string             `bson:"publicId"`
	OriginalSize   string             `bson:"originalSize"`
	CompressedSize string             `bson:"compressedSize"`
	Duration       float64            `bson:"duration"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (d *videoDocument) toDomain() domain.Video {
	return domain.Video{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		PublicID:       d.PublicID,
		OriginalSize:   d.OriginalSize,
		CompressedSize: d.CompressedSize,
		Duration:       d.Duration,
		CreatedAt:      d.CreatedAt,
	}
}

// mongoVideoRepository implements repository.VideoRepository
type mongoVideoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a Video repository backed by MongoDB.
func NewMongoVideoRepository(client *mongo.Client, db *mongo.Database) repository.VideoRepository {
	return &mongoVideoRepository{
		client:     client,
		collection: db.Collection(videoCollectionName),
	}
}

// Create inserts new video metadata into the database.
func (r *mongoVideoRepository) Create(ctx context.Context, video *domain.Video) (string, error) {
	if video == nil || video.PublicID == "" {
		return "", fmt.Errorf("%w: video requires a publicId", repository.ErrInvalidRecord)
	}

	doc := videoDocument{
		ID:             primitive.NewObjectID(),
		Title:          video.Title,
		Description:    video.Description,
		PublicID:       video.PublicID,
		OriginalSize:   video.OriginalSize,
		CompressedSize: video.CompressedSize,
		Duration:       video.Duration,
		// Mongo stores milliseconds; truncate so the returned value matches a later read.
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert video: %w", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("failed to convert inserted ID")
	}

	video.ID = insertedID.Hex()
	video.CreatedAt = doc.CreatedAt
	return video.ID, nil
}

// List returns every document in natural order.
func (r *mongoVideoRepository) List(ctx context.Context) ([]domain.Video, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []videoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}

	videos := make([]domain.Video, 0, len(docs))
	for i := range docs {
		videos = append(videos, docs[i].toDomain())
	}
	return videos, nil
}

// GetByID retrieves video metadata by its hex ObjectID.
func (r *mongoVideoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id can never match a stored document.
		return nil, repository.ErrNotFound
	}

	var doc videoDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	v := doc.toDomain()
	return &v, nil
}

func (r *mongoVideoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *mongoVideoRepository) Close(context.Context) error {
	return DisconnectDB(r.client)
}

// EnsureVideoIndexes creates necessary indexes for the videos collection.
func EnsureVideoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "publicId", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
