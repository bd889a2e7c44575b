package types

import (
	"time"

	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
)

// ProfileProjection transports a created record together with request-scoped metadata.
type ProfileProjection struct {
	Profile  *domain.Profile
	Metadata SubmissionMetadata
}

// SubmissionMetadata records what happened while the profile was submitted.
type SubmissionMetadata struct {
	SubmittedAt    time.Time
	ImageReference string
	ImageStaged    bool
}

// FileReference identifies a file finalized on the platform.
type FileReference struct {
	ID string
}

// NewProfileProjection wraps a created record with its metadata.
func NewProfileProjection(profile *domain.Profile, meta SubmissionMetadata) *ProfileProjection {
	if profile == nil {
		return nil
	}
	return &ProfileProjection{Profile: profile, Metadata: meta}
}
