// Package media manages attachments: uploaded files stored under uploads/ and
// recorded as attachment posts with inherit status.
//
// Each attachment carries two post meta entries. _wp_attached_file holds the
// path relative to the uploads directory and _wp_attachment_metadata holds the
// JSON encoded Metadata, including the intermediate image sizes generated for
// every size in the registry.
package media

import (
	"context"
	"time"

	"github.com/JaimeStill/mcp-endpoints/pkg/pagination"
)

// Media is the list view of an attachment. Alt, Width and Height are only set for images.
type Media struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	MimeType string    `json:"mime_type"`
	Date     time.Time `json:"date"`
	Alt      *string   `json:"alt,omitempty"`
	Width    *int      `json:"width,omitempty"`
	Height   *int      `json:"height,omitempty"`
}

// SizeRef locates one rendition of an image.
type SizeRef struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Detail is the single attachment view.
type Detail struct {
	Media
	Caption     string             `json:"caption"`
	Description string             `json:"description"`
	Filename    string             `json:"filename"`
	Filesize    *int64             `json:"filesize"`
	Sizes       map[string]SizeRef `json:"sizes,omitempty"`
	PageCount   *int               `json:"page_count,omitempty"`
	AttachedTo  *int64             `json:"attached_to"`
}

type Query struct {
	pagination.PageRequest
	MimeType string
	Search   string
	OrderBy  string
	Desc     bool
}

type Page struct {
	Media []Media `json:"media"`
	Total int64   `json:"total"`
	Pages int     `json:"pages"`
	Page  int     `json:"page"`
}

// Fields are the editable attachment texts. Nil fields are left unchanged.
type Fields struct {
	Title       *string `json:"title,omitempty"`
	Caption     *string `json:"caption,omitempty"`
	Description *string `json:"description,omitempty"`
	Alt         *string `json:"alt,omitempty"`
}

// UploadCommand is a file received from a client or downloaded for sideloading.
type UploadCommand struct {
	Filename string
	Data     []byte
	Fields
}

type SideloadCommand struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
	Fields
}

type Uploaded struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Uploaded  bool   `json:"uploaded"`
	SourceURL string `json:"source_url,omitempty"`
}

type BulkResult struct {
	Deleted      []int64 `json:"deleted"`
	Failed       []int64 `json:"failed"`
	DeletedCount int     `json:"deleted_count"`
}

type Stats struct {
	Total           int64            `json:"total"`
	ByType          map[string]int64 `json:"by_type"`
	UploadPath      string           `json:"upload_path"`
	UploadURL       string           `json:"upload_url"`
	TotalSizeMB     float64          `json:"total_size_mb"`
	MaxUploadSize   int64            `json:"max_upload_size"`
	MaxUploadSizeMB float64          `json:"max_upload_size_mb"`
}

type System interface {
	List(ctx context.Context, q Query) (*Page, error)
	Find(ctx context.Context, id int64) (*Detail, error)
	Upload(ctx context.Context, cmd UploadCommand) (*Uploaded, error)

	// Sideload downloads cmd.URL and stores it like an upload.
	Sideload(ctx context.Context, cmd SideloadCommand) (*Uploaded, error)
	Update(ctx context.Context, id int64, f Fields) error

	// Delete removes the attachment and every file generated for it.
	Delete(ctx context.Context, id int64) error
	BulkDelete(ctx context.Context, ids []int64) (*BulkResult, error)

	// Regenerate rebuilds the intermediate sizes and returns their names.
	Regenerate(ctx context.Context, id int64) ([]string, error)
	Stats(ctx context.Context) (*Stats, error)
}
