// Package storage keeps uploaded media (review videos, coach feedback, materials,
// avatars, theme logos and generated receipts) behind a single AssetStore.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const rootFolder = "pickleball"

type Category string

const (
	CategoryReviewVideo    Category = "review_video"
	CategoryReviewFeedback Category = "review_feedback"
	CategoryMaterial       Category = "material"
	CategoryAvatar         Category = "avatar"
	CategoryThemeLogo      Category = "theme_logo"
	CategoryReceipt        Category = "receipt"
)

const mb = 1 << 20

type rule struct {
	extensions []string
	maxBytes   int64
}

var videoExtensions = []string{".mp4", ".mov", ".webm", ".m4v"}

var rules = map[Category]rule{
	CategoryReviewVideo:    {extensions: videoExtensions, maxBytes: 500 * mb},
	CategoryReviewFeedback: {extensions: append(append([]string{}, videoExtensions...), ".pdf"), maxBytes: 500 * mb},
	CategoryMaterial:       {extensions: []string{".pdf", ".mp4", ".mov", ".zip", ".docx", ".pptx"}, maxBytes: 200 * mb},
	CategoryAvatar:         {extensions: []string{".jpg", ".jpeg", ".png", ".webp"}, maxBytes: 5 * mb},
	CategoryThemeLogo:      {extensions: []string{".png", ".svg", ".jpg", ".jpeg", ".webp"}, maxBytes: 2 * mb},
	CategoryReceipt:        {extensions: []string{".pdf"}, maxBytes: 5 * mb},
}

var (
	ErrUnknownCategory = errors.New("unknown upload category")
	ErrUnsupportedType = errors.New("file type not allowed for this category")
	ErrTooLarge        = errors.New("file exceeds the size limit for this category")
	ErrEmptyFile       = errors.New("file is empty")
)

// Upload is a file on its way into the store.
type Upload struct {
	Reader   io.Reader
	Filename string
	Size     int64
	OwnerID  uint
}

type AssetStore interface {
	Store(ctx context.Context, file Upload, category Category) (string, error)
	// Delete reports false when nothing was stored under url.
	Delete(ctx context.Context, url string) (bool, error)
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := rules[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// Validate checks the extension and size of an upload against its category.
func Validate(category Category, filename string, size int64) error {
	r, ok := rules[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > r.maxBytes {
		return fmt.Errorf("%w (%d MB)", ErrTooLarge, r.maxBytes/mb)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range r.extensions {
		if ext == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
}

// Folder is where every object of a category lives.
func Folder(category Category) string {
	return path.Join(rootFolder, string(category))
}

// ObjectKey builds pickleball/<category>/<owner>/<uuid><ext>.
func ObjectKey(category Category, ownerID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(Folder(category), fmt.Sprintf("%d", ownerID), uuid.New().String()+ext)
}
