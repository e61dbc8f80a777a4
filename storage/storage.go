// Package storage keeps uploaded profile images and content files.
package storage

import (
	"context"
	"fmt"
	"math"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"time"

	config "github.com/gurukul/gurukul-backend/configs"
	"github.com/pkg/errors"
)

// Kind selects the folder and the accepted extensions for an upload.
type Kind string

const (
	KindProfile Kind = "profile"
	KindContent Kind = "content"
)

var ErrUnsupportedType = errors.New("unsupported file type")

var allowedExtensions = map[Kind]*regexp.Regexp{
	KindProfile: regexp.MustCompile(`(?i)^\.(png|jpg|jpeg|svg|webp)$`),
	KindContent: regexp.MustCompile(`(?i)^\.(pdf|doc|docx|ppt|pptx|xls|xlsx|mp3|mp4|avi|mov|mkv|exe|zip|rar)$`),
}

var rejectionMessages = map[Kind]string{
	KindProfile: "Only .png, .jpg, .jpeg, .svg, and .webp formats are allowed for profile image",
	KindContent: "Only .pdf, .doc, .docx, .ppt, .pptx, .xls, .xlsx, .mp3, .mp4, .avi, .mov, .mkv, .exe, .zip, and .rar formats are allowed for content files",
}

// Check rejects file names whose extension is not accepted for k.
func (k Kind) Check(filename string) error {
	pattern, ok := allowedExtensions[k]
	if !ok || !pattern.MatchString(filepath.Ext(filename)) {
		return errors.Wrap(ErrUnsupportedType, rejectionMessages[k])
	}
	return nil
}

// RejectionMessage is the client-facing text for a refused upload.
func (k Kind) RejectionMessage() string {
	return rejectionMessages[k]
}

// FileStore saves uploads and returns the path or URL to store on the record.
type FileStore interface {
	Save(ctx context.Context, kind Kind, file *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, location string) error
}

// New builds the store selected by STORAGE_DRIVER.
func New() (FileStore, error) {
	switch driver := config.Config("STORAGE_DRIVER"); driver {
	case "", "disk":
		return NewDiskStore(config.Config("UPLOADS_DIR")), nil
	case "cloudinary":
		return NewCloudinaryStore(config.Config("CLOUDINARY_URL"))
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

// storedName prefixes the client's file name with the upload time in milliseconds.
func storedName(original string) string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(original))
}

// SizeKB reports a byte count in kilobytes rounded to two decimals.
func SizeKB(size int64) float64 {
	return math.Round(float64(size)/1024*100) / 100
}
