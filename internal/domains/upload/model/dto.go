package model

import (
	"io"
	"time"

	"oneshot-backend/internal/infrastructure/storage"
)

// IncomingFile is one multipart part handed to the service.
type IncomingFile struct {
	Field        string
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
}

type UploadedFile struct {
	OriginalName string `json:"originalName"`
	FileName     string `json:"filename"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
}

type UploadURLs struct {
	Photo      *storage.ImageURLs `json:"photo,omitempty"`
	Transcript string             `json:"transcript,omitempty"`
}

// UploadResult is the body of a successful upload. PhotoPending is set
// when derivatives are produced by the worker instead of inline.
type UploadResult struct {
	Slug            string                             `json:"slug"`
	UploadedFiles   map[string]UploadedFile            `json:"uploadedFiles"`
	ProcessedImages map[string]*storage.ProcessedImage `json:"processedImages"`
	UploadURLs      UploadURLs                         `json:"uploadUrls"`
	PhotoPending    bool                               `json:"photoPending,omitempty"`
	UploadedAt      time.Time                          `json:"uploadedAt"`
}
