package resource

import (
	"time"

	"github.com/uptrace/bun"
)

// Resource is a teaching file uploaded by an instructor. FilePath is the
// location returned by the storage backend.
type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	ResourceID    int       `bun:"resource_id,pk,autoincrement" json:"ResourceId"`
	FileName      string    `bun:"file_name,notnull" json:"FileName"`
	FilePath      string    `bun:"file_path,notnull" json:"FilePath"`
	ContentType   *string   `bun:"content_type" json:"ContentType"`
	SizeBytes     int64     `bun:"size_bytes,notnull" json:"SizeBytes"`
	UploadedAtUtc time.Time `bun:"uploaded_at_utc,nullzero,notnull,default:current_timestamp" json:"UploadedAtUtc"`
}
