package media

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound     = handlers.NewError("not_found", "Media not found", http.StatusNotFound)
	ErrNoFile       = handlers.NewError("no_file", "No file uploaded", http.StatusBadRequest)
	ErrInvalidType  = handlers.NewError("invalid_file_type", "Sorry, you are not allowed to upload this file type.", http.StatusBadRequest)
	ErrInvalidName  = handlers.NewError("invalid_filename", "A valid file name could not be determined.", http.StatusBadRequest)
	ErrNotImage     = handlers.NewError("not_image", "Not an image", http.StatusBadRequest)
	ErrFileNotFound = handlers.NewError("file_not_found", "Original file not found", http.StatusNotFound)
	ErrInvalidImage = handlers.NewError("invalid_image", "Could not read image file", http.StatusBadRequest)
	ErrDeleteFailed = handlers.NewError("delete_failed", "Failed to delete media", http.StatusInternalServerError)
	ErrFileExists   = handlers.NewError("file_exists", "A file with that name already exists", http.StatusConflict)
)
