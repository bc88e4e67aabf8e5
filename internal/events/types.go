package events

import (
	"math/rand"
	"time"
)

type EventType string

const (
	EventTypeLookCreated   EventType = "look.created"
	EventTypeLookUpdated   EventType = "look.updated"
	EventTypeLookDeleted   EventType = "look.deleted"
	EventTypeLookExported  EventType = "look.exported"
	EventTypeImageUploaded EventType = "look.image.uploaded"
	EventTypeImageReplaced EventType = "look.image.replaced"
)

// BaseEvent represents the common fields for all events
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

// LookEvent represents an event related to a look operation
type LookEvent struct {
	BaseEvent
	LookID  string `json:"lookId"`
	OwnerID string `json:"ownerId"`
}

// ImageEvent represents an event related to a look image operation
type ImageEvent struct {
	BaseEvent
	LookID      string `json:"lookId"`
	OwnerID     string `json:"ownerId"`
	Kind        string `json:"kind"`
	StoragePath string `json:"storagePath"`
}

func newLookEvent(eventType EventType, lookID, ownerID string) *LookEvent {
	return &LookEvent{
		BaseEvent: BaseEvent{
			ID:        generateEventID(),
			Type:      eventType,
			Timestamp: time.Now().Unix(),
			Version:   "1.0",
		},
		LookID:  lookID,
		OwnerID: ownerID,
	}
}

func newImageEvent(eventType EventType, lookID, ownerID, kind, storagePath string) *ImageEvent {
	return &ImageEvent{
		BaseEvent: BaseEvent{
			ID:        generateEventID(),
			Type:      eventType,
			Timestamp: time.Now().Unix(),
			Version:   "1.0",
		},
		LookID:      lookID,
		OwnerID:     ownerID,
		Kind:        kind,
		StoragePath: storagePath,
	}
}

// Helper function to generate a unique event ID
func generateEventID() string {
	return time.Now().UTC().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
