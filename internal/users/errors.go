package users

import (
	"net/http"

	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
)

var (
	ErrNotFound        = handlers.NewError("not_found", "User not found", http.StatusNotFound)
	ErrUsernameExists  = handlers.NewError("username_exists", "Username already exists", http.StatusBadRequest)
	ErrEmailExists     = handlers.NewError("email_exists", "Email already exists", http.StatusBadRequest)
	ErrInvalidRole     = handlers.NewError("invalid_role", "Invalid role", http.StatusBadRequest)
	ErrDeleteSelf      = handlers.NewError("cannot_delete_self", "Cannot delete current user", http.StatusBadRequest)
	ErrInvalidReassign = handlers.NewError("invalid_reassign", "Invalid user ID for reassignment", http.StatusBadRequest)
)
