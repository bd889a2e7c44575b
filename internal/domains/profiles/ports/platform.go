package ports

import (
	"context"
	"io"

	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
)

// StagedUploadRequest declares the file that is about to be uploaded.
type StagedUploadRequest struct {
	Filename string
	MimeType string
	FileSize int64
}

// StagedUploadParameter is one signature/authentication field the upload must carry verbatim.
type StagedUploadParameter struct {
	Name  string
	Value string
}

// StagedUploadTarget is valid for a single upload attempt and is never persisted.
type StagedUploadTarget struct {
	URL         string
	ResourceURL string
	Parameters  []StagedUploadParameter
}

// UploadContent is the binary payload sent to a staged target.
type UploadContent struct {
	Filename string
	MimeType string
	Body     io.Reader
}

// Platform is the outbound port onto the e-commerce platform's Admin API.
type Platform interface {
	CreateStagedUpload(ctx context.Context, req StagedUploadRequest) (*StagedUploadTarget, error)
	Upload(ctx context.Context, target *StagedUploadTarget, content UploadContent) error
	FinalizeFile(ctx context.Context, resourceURL string) (string, error)
	CreateProfile(ctx context.Context, profileType string, fields []domain.Field) (*domain.Profile, error)
}
