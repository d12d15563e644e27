package cpt

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrTypeNotFound   = handlers.NewError("not_found", "Post type not found", http.StatusNotFound)
	ErrAlreadyTrashed = handlers.NewError("already_trashed", "The post has already been trashed.", http.StatusGone)
)
