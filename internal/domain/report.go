package domain

import (
	"context"
	"io"
	"time"
)

// ReportFormat is an export format
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPNG ReportFormat = "png"
)

// ContentType returns the MIME type for the format
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatCSV:
		return "text/csv"
	case ReportFormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Valid reports whether the format is supported
func (f ReportFormat) Valid() bool {
	return f == ReportFormatCSV || f == ReportFormatPNG
}

// Report is a rendered export
type Report struct {
	Format   ReportFormat
	Filename string
	Data     []byte
}

// ArchivedReport points at a report stored in object storage
type ArchivedReport struct {
	ObjectPath string    `json:"objectPath"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ReportStorage persists rendered reports
type ReportStorage interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectPath string) error
}
