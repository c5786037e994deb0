package models

import "time"

const (
	UploadPending   = "pending"
	UploadCompleted = "completed"
)

// Attachment describes a file (photo, invoice, ...) attached to a task.
// The content lives in object storage under StorageKey.
type Attachment struct {
	ID           int64
	TaskID       int64
	FileName     string
	StorageKey   string
	UploadStatus string
	CreatedAt    time.Time
}

// AttachmentUpload is returned when an attachment is created: the client
// PUTs the file content to URL.
type AttachmentUpload struct {
	Attachment *Attachment
	URL        string
}
