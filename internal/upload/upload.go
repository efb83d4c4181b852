// Copyright (c) 2026 Wanderlust. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload stores listing images.

Only PNG and JPEG files are accepted. The extension of the original filename
and the sniffed content type must both agree, so a renamed script is refused
even if it is called photo.png.
*/
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/taibuivan/wanderlust/internal/platform/apperr"
	"github.com/taibuivan/wanderlust/internal/platform/ctxutil"
	"github.com/taibuivan/wanderlust/pkg/slug"
	"github.com/taibuivan/wanderlust/pkg/uuid"
)

// ErrUnsupportedFormat is returned for anything other than png, jpg or jpeg.
var ErrUnsupportedFormat = apperr.ValidationError("image: only png, jpg and jpeg files are allowed")

// allowedFormats maps accepted extensions to their sniffed content type.
var allowedFormats = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Store persists uploaded images.
type Store interface {
	// Save stores the file and returns its public URL and storage id.
	Save(ctx context.Context, file multipart.File, header *multipart.FileHeader) (url, storageID string, err error)
	// Delete removes a stored file. Unknown ids are not an error.
	Delete(ctx context.Context, storageID string) error
}

// # Disk Store

// DiskStore keeps images in a local directory served under a URL prefix.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates dir if needed and returns a store writing into it.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload_dir_create_failed: %w", err)
	}
	return &DiskStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (store *DiskStore) Dir() string { return store.dir }

// Save validates and writes an image.
func (store *DiskStore) Save(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	wantType, ok := allowedFormats[ext]
	if !ok {
		return "", "", ErrUnsupportedFormat
	}

	// 1. Sniff the first 512 bytes
	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("upload_read_failed: %w", err)
	}
	if http.DetectContentType(sniff[:n]) != wantType {
		return "", "", ErrUnsupportedFormat
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("upload_seek_failed: %w", err)
	}

	// 2. Build a name that cannot escape the directory
	base := slug.From(strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)))
	if base == "" {
		base = "image"
	}
	storageID := base + "-" + uuid.New() + ext

	// 3. Write the file
	target, err := os.OpenFile(filepath.Join(store.dir, storageID), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("upload_create_failed: %w", err)
	}
	defer target.Close()

	written, err := io.Copy(target, file)
	if err != nil {
		_ = os.Remove(target.Name())
		return "", "", fmt.Errorf("upload_write_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "image_stored",
		slog.String("storage_id", storageID),
		slog.Int64("bytes", written),
	)

	return path.Join(store.urlPrefix, storageID), storageID, nil
}

// Delete removes a stored image.
func (store *DiskStore) Delete(ctx context.Context, storageID string) error {
	if storageID == "" || storageID != filepath.Base(storageID) {
		return nil
	}

	if err := os.Remove(filepath.Join(store.dir, storageID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload_delete_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "image_deleted", slog.String("storage_id", storageID))
	return nil
}
