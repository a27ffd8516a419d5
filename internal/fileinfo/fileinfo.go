// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package fileinfo collects the basic attributes of a file selected by the user.
package fileinfo

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

// sniffLen is the amount of bytes read to detect the file type by its magic numbers
const sniffLen = 262

var ErrIsDirectory = errors.New("path is a directory")

// textTypes covers common text formats missing from the Go builtin MIME table on systems
// without a mime.types database
var textTypes = map[string]string{
	".txt": "text/plain",
	".log": "text/plain",
	".md":  "text/markdown",
	".csv": "text/csv",
}

// File represents a selected file and the attributes that are displayed for it.
type File struct {
	Path         string    `json:"-"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Open reads the attributes of the file at path. The content type is derived from the magic
// numbers of the file and falls back to the type registered for the file extension.
func Open(path string) (*File, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	file := &File{
		Path:         path,
		Name:         stat.Name(),
		Size:         stat.Size(),
		LastModified: stat.ModTime(),
	}
	file.ContentType, err = detectContentType(path)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Open opens the underlying file for reading.
func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// IsImage reports whether the declared content type is an image type.
func (f *File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

func detectContentType(path string) (string, error) {
	handle, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = handle.Close() }()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(handle, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}

	kind, err := filetype.Match(head[:n])
	if err == nil && kind != filetype.Unknown {
		return kind.MIME.Value, nil
	}

	return extensionType(path), nil
}

func extensionType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	ext = strings.ToLower(ext)
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return textTypes[ext]
	}
	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return ""
	}
	return mediaType
}
