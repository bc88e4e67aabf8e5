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

type LookRepository struct {
	collection *mongodb.Collection
}

// NewLookRepository creates a new look repository
func NewLookRepository() *LookRepository {
	return &LookRepository{
		collection: mongo.GetCollection("looks"),
	}
}

// Create saves a new look
func (r *LookRepository) Create(ctx context.Context, look *models.Look) (*models.Look, error) {
	look.CreatedAt = time.Now()
	look.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, look)
	if err != nil {
		log.Printf("Error creating look: %v", err)
		return nil, err
	}

	look.ID = result.InsertedID.(bson.ObjectID)
	return look, nil
}

// GetByID retrieves a look by ID
func (r *LookRepository) GetByID(ctx context.Context, id string) (*models.Look, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var look models.Look
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&look)
	if err != nil {
		if err == mongodb.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &look, nil
}

// GetByOwnerID returns the owner's looks sorted by creation date (newest first)
func (r *LookRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Look, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var looks []*models.Look
	if err = cursor.All(ctx, &looks); err != nil {
		return nil, err
	}

	return looks, nil
}

// Update sets a look's title and notes
func (r *LookRepository) Update(ctx context.Context, id, title, notes string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{
			"title":     title,
			"notes":     notes,
			"updatedAt": time.Now(),
		},
	})
	if err != nil {
		log.Printf("Error updating look %s: %v", id, err)
	}
	return err
}

// Delete deletes a look by ID
func (r *LookRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}
