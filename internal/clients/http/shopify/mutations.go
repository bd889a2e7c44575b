package shopify

import (
	"context"
	"fmt"
)

// Resource and content type constants used by the file mutations.
const (
	ResourceImage    = "IMAGE"
	ContentTypeImage = "IMAGE"
	HTTPMethodPost   = "POST"
)

// Input type names must match the Admin API input objects. The GraphQL client declares
// mutation variables from them.

// StagedUploadInput declares a file before it is uploaded. Resource defaults to IMAGE and
// HTTPMethod to POST.
type StagedUploadInput struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	Resource   string `json:"resource"`
	HTTPMethod string `json:"httpMethod"`
	FileSize   int64  `json:"fileSize,string"`
}

// FileCreateInput finalizes a staged resource.
type FileCreateInput struct {
	OriginalSource string `json:"originalSource"`
	ContentType    string `json:"contentType"`
}

// MetaobjectCreateInput is the record sent to metaobjectCreate.
type MetaobjectCreateInput struct {
	Type   string                 `json:"type"`
	Fields []MetaobjectFieldInput `json:"fields"`
}

// MetaobjectFieldInput is one key/value of a new metaobject.
type MetaobjectFieldInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// StagedUploadParameter must accompany the upload verbatim.
type StagedUploadParameter struct {
	Name  string `json:"name" graphql:"name"`
	Value string `json:"value" graphql:"value"`
}

// StagedTarget is where and how to upload the file.
type StagedTarget struct {
	URL         string                  `json:"url" graphql:"url"`
	ResourceURL string                  `json:"resourceUrl" graphql:"resourceUrl"`
	Parameters  []StagedUploadParameter `json:"parameters" graphql:"parameters"`
}

// CreatedFile is an entry of the fileCreate payload.
type CreatedFile struct {
	ID         string `json:"id" graphql:"id"`
	FileStatus string `json:"fileStatus" graphql:"fileStatus"`
}

// MetaobjectField is a key/value pair of a metaobject. Values may be null in responses.
type MetaobjectField struct {
	Key   string  `json:"key" graphql:"key"`
	Value *string `json:"value" graphql:"value"`
}

// Metaobject is the record returned by metaobjectCreate.
type Metaobject struct {
	ID     string            `json:"id" graphql:"id"`
	Type   string            `json:"type" graphql:"type"`
	Fields []MetaobjectField `json:"fields" graphql:"fields"`
}

// stagedUploadUserError mirrors the plain UserError type of stagedUploadsCreate, which
// has no code.
type stagedUploadUserError struct {
	Field   []string `graphql:"field"`
	Message string   `graphql:"message"`
}

// StagedUploadsCreate requests one upload target.
func (c *Client) StagedUploadsCreate(ctx context.Context, input StagedUploadInput) (*StagedTarget, error) {
	if input.Resource == "" {
		input.Resource = ResourceImage
	}
	if input.HTTPMethod == "" {
		input.HTTPMethod = HTTPMethodPost
	}
	var m struct {
		StagedUploadsCreate struct {
			StagedTargets []StagedTarget          `graphql:"stagedTargets"`
			UserErrors    []stagedUploadUserError `graphql:"userErrors"`
		} `graphql:"stagedUploadsCreate(input: $input)"`
	}
	variables := map[string]any{"input": []StagedUploadInput{input}}
	if err := c.mutate(ctx, "stagedUploadsCreate", &m, variables); err != nil {
		return nil, err
	}
	payload := m.StagedUploadsCreate
	if len(payload.UserErrors) > 0 {
		userErrs := make([]UserError, 0, len(payload.UserErrors))
		for _, ue := range payload.UserErrors {
			userErrs = append(userErrs, UserError{Field: ue.Field, Message: ue.Message})
		}
		return nil, &UserErrors{Operation: "stagedUploadsCreate", Errors: userErrs}
	}
	if len(payload.StagedTargets) == 0 {
		return nil, fmt.Errorf("stagedUploadsCreate: %w", ErrEmptyResult)
	}
	target := payload.StagedTargets[0]
	return &target, nil
}

// FileCreate finalizes a staged resource into a platform file and returns its global id.
func (c *Client) FileCreate(ctx context.Context, originalSource, contentType string) (*CreatedFile, error) {
	if contentType == "" {
		contentType = ContentTypeImage
	}
	var m struct {
		FileCreate struct {
			Files      []CreatedFile `graphql:"files"`
			UserErrors []UserError   `graphql:"userErrors"`
		} `graphql:"fileCreate(files: $files)"`
	}
	variables := map[string]any{
		"files": []FileCreateInput{{OriginalSource: originalSource, ContentType: contentType}},
	}
	if err := c.mutate(ctx, "fileCreate", &m, variables); err != nil {
		return nil, err
	}
	payload := m.FileCreate
	if len(payload.UserErrors) > 0 {
		return nil, &UserErrors{Operation: "fileCreate", Errors: payload.UserErrors}
	}
	if len(payload.Files) == 0 || payload.Files[0].ID == "" {
		return nil, fmt.Errorf("fileCreate: %w", ErrEmptyResult)
	}
	file := payload.Files[0]
	return &file, nil
}

// MetaobjectCreate creates a metaobject of the given type. Nil values are sent as "".
func (c *Client) MetaobjectCreate(ctx context.Context, objectType string, fields []MetaobjectField) (*Metaobject, error) {
	input := MetaobjectCreateInput{Type: objectType, Fields: make([]MetaobjectFieldInput, 0, len(fields))}
	for _, f := range fields {
		value := ""
		if f.Value != nil {
			value = *f.Value
		}
		input.Fields = append(input.Fields, MetaobjectFieldInput{Key: f.Key, Value: value})
	}
	var m struct {
		MetaobjectCreate struct {
			Metaobject *Metaobject `graphql:"metaobject"`
			UserErrors []UserError `graphql:"userErrors"`
		} `graphql:"metaobjectCreate(metaobject: $metaobject)"`
	}
	if err := c.mutate(ctx, "metaobjectCreate", &m, map[string]any{"metaobject": input}); err != nil {
		return nil, err
	}
	payload := m.MetaobjectCreate
	if len(payload.UserErrors) > 0 {
		return nil, &UserErrors{Operation: "metaobjectCreate", Errors: payload.UserErrors}
	}
	if payload.Metaobject == nil || payload.Metaobject.ID == "" {
		return nil, fmt.Errorf("metaobjectCreate: %w", ErrEmptyResult)
	}
	return payload.Metaobject, nil
}
