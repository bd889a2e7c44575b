package application

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
)

const (
	defaultCallTimeout = 15 * time.Second
	fallbackMimeType   = "application/octet-stream"
)

// Config is the explicit configuration of the submission protocol.
type Config struct {
	// ProfileType is the metaobject type tag of created records.
	ProfileType string
	// GIDNamespace scopes global ids, e.g. "shopify" in gid://shopify/Customer/1.
	GIDNamespace string
	// CallTimeout bounds every outbound platform call.
	CallTimeout time.Duration
	// MaxImageBytes rejects larger images before staging. Zero or less disables the check.
	MaxImageBytes int64
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.ProfileType) == "" {
		c.ProfileType = domain.DefaultProfileType
	}
	if strings.TrimSpace(c.GIDNamespace) == "" {
		c.GIDNamespace = domain.DefaultGIDNamespace
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = defaultCallTimeout
	}
	return c
}

// Service orchestrates the pooch profile submission protocol.
//
// SubmitProfile is not idempotent: the platform exposes no dedup key, so repeating a
// successful submission creates a second record. Images that were staged but never
// finalized because a later step failed are left on the platform.
type Service struct {
	platform ports.Platform
	cfg      Config
	now      func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the clock used for submission metadata.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the profile service with its platform and configuration.
func NewService(platform ports.Platform, cfg Config, opts ...Option) *Service {
	s := &Service{platform: platform, cfg: cfg.withDefaults(), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SubmitProfile validates the input, stages the image when needed and creates the record.
func (s *Service) SubmitProfile(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	draft, err := domain.NewDraft(input.Name, input.CustomerID, input.Breed, input.Birthday, input.Weight, input.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.checkImage(input.Image); err != nil {
		return nil, err
	}
	if s.platform == nil {
		return nil, ErrNotConfigured
	}

	meta := profiletypes.SubmissionMetadata{SubmittedAt: s.now().UTC()}
	imageRef := input.Image.ReferenceID()
	if input.Image.HasUpload() {
		ref, err := s.stageImage(ctx, input.Image.Upload)
		if err != nil {
			return nil, err
		}
		imageRef = ref
		meta.ImageStaged = true
	}
	meta.ImageReference = imageRef

	fields := draft.Fields(s.cfg.GIDNamespace, imageRef)
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	profile, err := s.platform.CreateProfile(callCtx, s.cfg.ProfileType, fields)
	if err != nil {
		return nil, domain.Reclassify(err, domain.ErrSubmissionRejected, "create profile")
	}
	if profile == nil || strings.TrimSpace(profile.ID) == "" {
		return nil, stepError(domain.ErrSubmissionRejected, "create profile", "platform returned no profile record")
	}
	if profile.Type == "" {
		profile.Type = s.cfg.ProfileType
	}
	if len(profile.Fields) == 0 {
		profile.Fields = fields
	}
	return profiletypes.NewProfileProjection(profile, meta), nil
}

// StageImage uploads an image on its own and returns the finalized file reference.
func (s *Service) StageImage(ctx context.Context, input profiletypes.StageImageInput) (*profiletypes.FileReference, error) {
	if input.Upload == nil {
		return nil, domain.NewValidationError("image is required")
	}
	if err := s.checkImage(&profiletypes.ImageInput{Upload: input.Upload}); err != nil {
		return nil, err
	}
	if s.platform == nil {
		return nil, ErrNotConfigured
	}
	id, err := s.stageImage(ctx, input.Upload)
	if err != nil {
		return nil, err
	}
	return &profiletypes.FileReference{ID: id}, nil
}

func (s *Service) checkImage(image *profiletypes.ImageInput) error {
	if !image.HasUpload() {
		return nil
	}
	upload := image.Upload
	if strings.TrimSpace(upload.Filename()) == "" {
		return domain.NewValidationError("image filename is required")
	}
	size := upload.Size()
	if size <= 0 {
		return domain.NewValidationError("image is empty")
	}
	if s.cfg.MaxImageBytes > 0 && size > s.cfg.MaxImageBytes {
		return domain.NewValidationError(fmt.Sprintf("image exceeds %d bytes", s.cfg.MaxImageBytes))
	}
	return nil
}

// stageImage runs stagedUploadsCreate, the binary transport and fileCreate in order.
func (s *Service) stageImage(ctx context.Context, upload *profiletypes.ImageUpload) (string, error) {
	body, err := upload.File.Reader()
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer body.Close()

	filename := filepath.Base(upload.Filename())
	mimeType := resolveMimeType(upload.MimeType, filename)

	stageCtx, cancelStage := s.callContext(ctx)
	target, err := s.platform.CreateStagedUpload(stageCtx, ports.StagedUploadRequest{
		Filename: filename,
		MimeType: mimeType,
		FileSize: upload.Size(),
	})
	cancelStage()
	if err != nil {
		return "", domain.Reclassify(err, domain.ErrStaging, "stage image")
	}
	if target == nil || strings.TrimSpace(target.URL) == "" || strings.TrimSpace(target.ResourceURL) == "" {
		return "", stepError(domain.ErrStaging, "stage image", "platform returned no upload target")
	}

	uploadCtx, cancelUpload := s.callContext(ctx)
	err = s.platform.Upload(uploadCtx, target, ports.UploadContent{Filename: filename, MimeType: mimeType, Body: body})
	cancelUpload()
	if err != nil {
		return "", domain.Reclassify(err, domain.ErrUploadTransport, "upload image")
	}

	finalizeCtx, cancelFinalize := s.callContext(ctx)
	id, err := s.platform.FinalizeFile(finalizeCtx, target.ResourceURL)
	cancelFinalize()
	if err != nil {
		return "", domain.Reclassify(err, domain.ErrFinalization, "finalize image")
	}
	if strings.TrimSpace(id) == "" {
		return "", stepError(domain.ErrFinalization, "finalize image", "platform returned no file id")
	}
	return id, nil
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.CallTimeout)
}

func resolveMimeType(declared, filename string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	return fallbackMimeType
}

var _ ports.Service = (*Service)(nil)
