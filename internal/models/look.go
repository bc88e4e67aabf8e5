package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Look pairs an inspiration photo with a personal photo under a title and notes.
type Look struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   string        `bson:"ownerId" json:"ownerId"`
	Title     string        `bson:"title,omitempty" json:"title,omitempty"`
	Notes     string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// LookImage is one uploaded photo of a look. The collection holds at most one
// document per (lookId, kind); replacing a photo upserts the same document with
// a fresh storage path.
type LookImage struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LookID      bson.ObjectID `bson:"lookId" json:"lookId"`
	Kind        ImageKind     `bson:"kind" json:"kind"`
	FileName    string        `bson:"fileName" json:"fileName"`       // Original filename
	Size        int64         `bson:"size" json:"size"`               // Size in bytes
	ContentType string        `bson:"contentType" json:"contentType"` // MIME type
	StoragePath string        `bson:"storagePath" json:"storagePath"` // Path in MinIO
	BucketName  string        `bson:"bucketName" json:"bucketName"`   // MinIO bucket name
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// LookWithImages is a look together with short-lived display URLs for its
// photos. URLs expire and are re-resolved on every fetch, never stored.
type LookWithImages struct {
	Look     *Look  `json:"look"`
	InspoURL string `json:"inspoUrl,omitempty"`
	MyURL    string `json:"myUrl,omitempty"`
}
