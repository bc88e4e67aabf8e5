package repository

import (
	"context"
	"log"
	"lookbook-service/internal/database/mongo"
	"lookbook-service/internal/models"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodb "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type LookImageRepository struct {
	collection *mongodb.Collection
}

// NewLookImageRepository creates a new look image repository
func NewLookImageRepository() *LookImageRepository {
	return &LookImageRepository{
		collection: mongo.GetCollection("look_images"),
	}
}

// Upsert writes the image document for a (look, kind) slot. A second upload
// for the same slot replaces the stored path pointer instead of inserting a
// duplicate; the unique index backs this up.
func (r *LookImageRepository) Upsert(ctx context.Context, image *models.LookImage) error {
	now := time.Now()
	filter := bson.M{"lookId": image.LookID, "kind": image.Kind}
	update := bson.M{
		"$set": bson.M{
			"fileName":    image.FileName,
			"size":        image.Size,
			"contentType": image.ContentType,
			"storagePath": image.StoragePath,
			"bucketName":  image.BucketName,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"lookId":    image.LookID,
			"kind":      image.Kind,
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		log.Printf("Error upserting look image (%s, %s): %v", image.LookID.Hex(), image.Kind, err)
	}
	return err
}

// GetByLookID returns all image documents of one look
func (r *LookImageRepository) GetByLookID(ctx context.Context, lookID string) ([]*models.LookImage, error) {
	objectID, err := bson.ObjectIDFromHex(lookID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"lookId": objectID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []*models.LookImage
	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}

	return images, nil
}

// GetByLookIDs returns the image documents of a batch of looks
func (r *LookImageRepository) GetByLookIDs(ctx context.Context, lookIDs []string) ([]*models.LookImage, error) {
	objectIDs := make([]bson.ObjectID, 0, len(lookIDs))
	for _, id := range lookIDs {
		objectID, err := bson.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"lookId": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var images []*models.LookImage
	if err = cursor.All(ctx, &images); err != nil {
		return nil, err
	}

	return images, nil
}

// DeleteByLookID removes all image documents of a look
func (r *LookImageRepository) DeleteByLookID(ctx context.Context, lookID string) error {
	objectID, err := bson.ObjectIDFromHex(lookID)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteMany(ctx, bson.M{"lookId": objectID})
	return err
}
