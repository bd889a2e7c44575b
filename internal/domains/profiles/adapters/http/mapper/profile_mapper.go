package mapper

import (
	"strings"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
)

// SubmitProfileRequest is the JSON body of a profile submission. Both the camelCase and the
// snake_case spellings used by storefront clients are accepted.
type SubmitProfileRequest struct {
	Name            string     `json:"name"`
	CustomerID      FlexString `json:"customerId"`
	CustomerIDSnake FlexString `json:"customer_id"`
	Breed           string     `json:"breed"`
	Birthday        string     `json:"birthday"`
	Weight          FlexString `json:"weight"`
	Notes           string     `json:"notes"`
	Message         string     `json:"message"`
	Image           string     `json:"image"`
	ImageID         string     `json:"imageId"`
}

// Form field names read from multipart and urlencoded submissions.
const (
	FormImageFile = "image"
	FormUploadKey = "file"
)

// FormValues looks up a single form value by key.
type FormValues func(key string) string

// FromForm reads a submission from form fields.
func FromForm(get FormValues) SubmitProfileRequest {
	return SubmitProfileRequest{
		Name:            get("name"),
		CustomerID:      FlexString(strings.TrimSpace(get("customerId"))),
		CustomerIDSnake: FlexString(strings.TrimSpace(get("customer_id"))),
		Breed:           get("breed"),
		Birthday:        get("birthday"),
		Weight:          FlexString(strings.TrimSpace(get("weight"))),
		Notes:           get("notes"),
		Message:         get("message"),
		Image:           get("image"),
		ImageID:         get("imageId"),
	}
}

// ToSubmitInput maps the transport request into the application input. upload may be nil.
func ToSubmitInput(req SubmitProfileRequest, upload *profiletypes.ImageUpload) profiletypes.SubmitProfileInput {
	input := profiletypes.SubmitProfileInput{
		Name:       req.Name,
		CustomerID: firstNonEmpty(req.CustomerID.String(), req.CustomerIDSnake.String()),
		Breed:      req.Breed,
		Birthday:   req.Birthday,
		Weight:     req.Weight.String(),
		Notes:      firstNonEmpty(req.Notes, req.Message),
	}
	if upload != nil {
		input.Image = &profiletypes.ImageInput{Upload: upload}
	} else if ref := firstNonEmpty(req.ImageID, req.Image); ref != "" {
		input.Image = &profiletypes.ImageInput{Reference: ref}
	}
	return input
}

// Field is the HTTP representation of a record field.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProfileRecord is the HTTP representation of a created profile.
type ProfileRecord struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Fields []Field `json:"fields"`
}

// FileReference is the HTTP representation of a finalized file.
type FileReference struct {
	ID string `json:"id"`
}

// FromProjection maps a created profile into its HTTP representation.
func FromProjection(proj *profiletypes.ProfileProjection) *ProfileRecord {
	if proj == nil || proj.Profile == nil {
		return nil
	}
	return FromProfile(proj.Profile)
}

// FromProfile maps a domain record.
func FromProfile(p *domain.Profile) *ProfileRecord {
	if p == nil {
		return nil
	}
	fields := make([]Field, 0, len(p.Fields))
	for _, f := range p.Fields {
		fields = append(fields, Field{Key: f.Key, Value: f.Value})
	}
	return &ProfileRecord{ID: p.ID, Type: p.Type, Fields: fields}
}

// FromFileReference maps a finalized file reference.
func FromFileReference(ref *profiletypes.FileReference) *FileReference {
	if ref == nil {
		return nil
	}
	return &FileReference{ID: ref.ID}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
