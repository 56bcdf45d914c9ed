package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File categories.
const (
	FileCategoryUpload  = "upload"
	FileCategoryDefault = "default"
)

// SystemUserID owns the bundled default assets.
const SystemUserID = "system"

// File is the metadata of a 3D asset kept in object storage.
type File struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename    string             `bson:"filename" json:"filename"`
	Filepath    string             `bson:"filepath" json:"filepath"` // object key
	Size        int64              `bson:"file_size" json:"file_size"`
	ContentType string             `bson:"content_type" json:"content_type"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Category    string             `bson:"category" json:"category"`
	UploadedAt  time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// StoredObject describes an object as listed by the storage backend.
type StoredObject struct {
	Key  string
	Size int64
}
