package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// FileService persists uploaded protocol files to the upload
// directory before ingestion picks them up.
type FileService struct {
	uploadDir string
}

func NewFileService(uploadDir string) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileService{uploadDir: uploadDir}, nil
}

// SaveUpload writes one multipart file to disk under its sanitized
// original name and returns the saved file descriptor. The original
// filename stays the document-title label for the whole pipeline.
func (s *FileService) SaveUpload(file *multipart.FileHeader) (SavedFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return SavedFile{}, fmt.Errorf("unsupported file type: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return SavedFile{}, err
	}
	defer src.Close()

	filename := sanitizeUploadName(file.Filename)
	path := filepath.Join(s.uploadDir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return SavedFile{}, err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return SavedFile{}, err
	}

	return SavedFile{Filename: file.Filename, Path: path}, nil
}

// FilePath resolves a stored upload by its original filename.
func (s *FileService) FilePath(filename string) (string, error) {
	path := filepath.Join(s.uploadDir, sanitizeUploadName(filename))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found: %s", filename)
	}
	return path, nil
}

func sanitizeUploadName(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, base)
}
