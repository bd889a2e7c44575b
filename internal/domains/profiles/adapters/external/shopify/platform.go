package shopify

import (
	"context"
	"errors"

	shopifyclient "github.com/Apurer/pooch-profile-api/internal/clients/http/shopify"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
)

// Platform implements the outbound platform port over the Shopify Admin API client.
type Platform struct {
	client *shopifyclient.Client
}

// NewPlatform wires a Shopify client into the platform adapter.
func NewPlatform(client *shopifyclient.Client) *Platform {
	return &Platform{client: client}
}

// CreateStagedUpload requests an upload target for an image.
func (p *Platform) CreateStagedUpload(ctx context.Context, req ports.StagedUploadRequest) (*ports.StagedUploadTarget, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("shopify platform not configured")
	}
	target, err := p.client.StagedUploadsCreate(ctx, shopifyclient.StagedUploadInput{
		Filename: req.Filename,
		MimeType: req.MimeType,
		FileSize: req.FileSize,
		Resource: shopifyclient.ResourceImage,
	})
	if err != nil {
		return nil, toDomainError(err, domain.ErrStaging, "stagedUploadsCreate")
	}
	return ToStagedTarget(target), nil
}

// Upload sends the image to the staged target.
func (p *Platform) Upload(ctx context.Context, target *ports.StagedUploadTarget, content ports.UploadContent) error {
	if p == nil || p.client == nil {
		return errors.New("shopify platform not configured")
	}
	if err := p.client.Upload(ctx, FromStagedTarget(target), content.Filename, content.MimeType, content.Body); err != nil {
		return toDomainError(err, domain.ErrUploadTransport, "stagedUpload")
	}
	return nil
}

// FinalizeFile turns a staged resource into an image file and returns its global id.
func (p *Platform) FinalizeFile(ctx context.Context, resourceURL string) (string, error) {
	if p == nil || p.client == nil {
		return "", errors.New("shopify platform not configured")
	}
	file, err := p.client.FileCreate(ctx, resourceURL, shopifyclient.ContentTypeImage)
	if err != nil {
		return "", toDomainError(err, domain.ErrFinalization, "fileCreate")
	}
	return file.ID, nil
}

// CreateProfile creates the metaobject record.
func (p *Platform) CreateProfile(ctx context.Context, profileType string, fields []domain.Field) (*domain.Profile, error) {
	if p == nil || p.client == nil {
		return nil, errors.New("shopify platform not configured")
	}
	obj, err := p.client.MetaobjectCreate(ctx, profileType, ToMetaobjectFields(fields))
	if err != nil {
		return nil, toDomainError(err, domain.ErrSubmissionRejected, "metaobjectCreate")
	}
	return ToProfile(obj), nil
}

var _ ports.Platform = (*Platform)(nil)
