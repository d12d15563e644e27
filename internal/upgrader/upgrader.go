package upgrader

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/JaimeStill/mcp-endpoints/internal/wporg"
	"github.com/JaimeStill/mcp-endpoints/pkg/handlers"
	"github.com/JaimeStill/mcp-endpoints/pkg/storage"
)

var (
	ErrIncompatibleArchive = handlers.NewError("incompatible_archive", "The package could not be installed.", http.StatusInternalServerError)
	ErrFolderExists        = handlers.NewError("folder_exists", "Destination folder already exists.", http.StatusInternalServerError)
	ErrNoPackage           = handlers.NewError("no_package", "Installation package not available.", http.StatusInternalServerError)
)

// Upgrader downloads packages and writes them into the content filesystem.
type Upgrader struct {
	dir      wporg.Directory
	store    storage.System
	logger   *slog.Logger
	maxBytes int64
}

// New creates an Upgrader. maxBytes bounds both the download and the unpacked size.
func New(dir wporg.Directory, store storage.System, logger *slog.Logger, maxBytes int64) *Upgrader {
	return &Upgrader{
		dir:      dir,
		store:    store,
		logger:   logger.With("system", "upgrader"),
		maxBytes: maxBytes,
	}
}

// Install unpacks the package at packageURL into root/<dir>, where dir is the
// archive's top-level directory or fallback. It refuses to overwrite an existing directory.
func (u *Upgrader) Install(ctx context.Context, packageURL, root, fallback string, skin Skin) (string, error) {
	files, dir, err := u.fetch(ctx, packageURL, skin)
	if err != nil {
		return "", err
	}

	dest, files := destination(files, dir, fallback)
	prefix := path.Join(root, dest)

	exists, err := u.store.Children(ctx, prefix)
	if err != nil {
		return "", handlers.Host(handlers.ErrStorage, err)
	}
	if len(exists) > 0 {
		skin.Error(ErrFolderExists)
		return "", ErrFolderExists.Withf("Destination folder already exists. %s", prefix)
	}

	skin.Feedback("Installing the package into %s", prefix)
	if err := u.write(ctx, prefix, files); err != nil {
		skin.Error(err)
		return "", err
	}

	u.logger.Info("package installed", "destination", prefix, "files", len(files))
	return dest, nil
}

// Upgrade replaces root/dir with the contents of the package at packageURL.
func (u *Upgrader) Upgrade(ctx context.Context, packageURL, root, dir string, skin Skin) error {
	files, top, err := u.fetch(ctx, packageURL, skin)
	if err != nil {
		return err
	}

	_, files = destination(files, top, dir)
	prefix := path.Join(root, dir)

	skin.Feedback("Removing the old version of %s", prefix)
	if err := u.store.DeletePrefix(ctx, prefix); err != nil {
		skin.Error(err)
		return handlers.Host(handlers.ErrStorage, err)
	}

	skin.Feedback("Installing the latest version into %s", prefix)
	if err := u.write(ctx, prefix, files); err != nil {
		skin.Error(err)
		return err
	}

	u.logger.Info("package upgraded", "destination", prefix, "files", len(files))
	return nil
}

func (u *Upgrader) fetch(ctx context.Context, packageURL string, skin Skin) ([]File, string, error) {
	if packageURL == "" {
		skin.Error(ErrNoPackage)
		return nil, "", ErrNoPackage
	}

	skin.Feedback("Downloading package from %s", packageURL)
	data, err := u.dir.Download(ctx, packageURL, u.maxBytes)
	if err != nil {
		skin.Error(err)
		return nil, "", err
	}

	skin.Feedback("Unpacking the package")
	files, top, err := Unpack(data, u.maxBytes*4)
	if err != nil {
		skin.Error(err)
		return nil, "", err
	}
	return files, top, nil
}

func (u *Upgrader) write(ctx context.Context, prefix string, files []File) error {
	for _, f := range files {
		if err := u.store.Store(ctx, path.Join(prefix, f.Path), f.Data); err != nil {
			return handlers.Host(handlers.ErrStorage, err)
		}
	}
	return nil
}

// destination strips the archive's top-level directory from file paths when present
// and returns the directory name to install into.
func destination(files []File, top, fallback string) (string, []File) {
	if top == "" {
		return fallback, files
	}
	out := make([]File, 0, len(files))
	for _, f := range files {
		out = append(out, File{Path: strings.TrimPrefix(f.Path, top+"/"), Data: f.Data})
	}
	return top, out
}
