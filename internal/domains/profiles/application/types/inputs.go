package types

import (
	"strings"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// SubmitProfileInput carries a pooch profile submission as decoded by the transport layer.
type SubmitProfileInput struct {
	Name       string
	CustomerID string
	Breed      string
	Birthday   string
	// Weight is always carried as a string; numeric inputs are formatted by the transport layer.
	Weight string
	Notes  string
	Image  *ImageInput
}

// ImageInput is either a raw upload or a reference to a file already finalized on the platform.
type ImageInput struct {
	Upload    *ImageUpload
	Reference string
}

// HasUpload reports whether the image still has to be staged.
func (i *ImageInput) HasUpload() bool {
	return i != nil && i.Upload != nil
}

// ReferenceID returns the trimmed pre-staged file reference, if any.
func (i *ImageInput) ReferenceID() string {
	if i == nil {
		return ""
	}
	return strings.TrimSpace(i.Reference)
}

// ImageUpload is a binary image payload. File is backed either by a multipart header
// (spooled to a temporary file by the HTTP layer) or by in-memory bytes.
type ImageUpload struct {
	File     openapi_types.File
	MimeType string
}

// Filename returns the client-supplied file name.
func (u *ImageUpload) Filename() string {
	if u == nil {
		return ""
	}
	return u.File.Filename()
}

// Size returns the payload size in bytes.
func (u *ImageUpload) Size() int64 {
	if u == nil {
		return 0
	}
	return u.File.FileSize()
}

// NewImageUploadFromBytes wraps in-memory content, mostly for tests and non-multipart callers.
func NewImageUploadFromBytes(filename, mimeType string, content []byte) *ImageUpload {
	upload := &ImageUpload{MimeType: mimeType}
	upload.File.InitFromBytes(content, filename)
	return upload
}

// StageImageInput requests a standalone image upload.
type StageImageInput struct {
	Upload *ImageUpload
}
