package shopify

import (
	"errors"

	shopifyclient "github.com/Apurer/pooch-profile-api/internal/clients/http/shopify"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
)

// ToStagedTarget converts the client target into the port shape, keeping parameter order.
func ToStagedTarget(target *shopifyclient.StagedTarget) *ports.StagedUploadTarget {
	if target == nil {
		return nil
	}
	params := make([]ports.StagedUploadParameter, 0, len(target.Parameters))
	for _, p := range target.Parameters {
		params = append(params, ports.StagedUploadParameter{Name: p.Name, Value: p.Value})
	}
	return &ports.StagedUploadTarget{URL: target.URL, ResourceURL: target.ResourceURL, Parameters: params}
}

// FromStagedTarget converts a port target back into the client shape.
func FromStagedTarget(target *ports.StagedUploadTarget) *shopifyclient.StagedTarget {
	if target == nil {
		return nil
	}
	params := make([]shopifyclient.StagedUploadParameter, 0, len(target.Parameters))
	for _, p := range target.Parameters {
		params = append(params, shopifyclient.StagedUploadParameter{Name: p.Name, Value: p.Value})
	}
	return &shopifyclient.StagedTarget{URL: target.URL, ResourceURL: target.ResourceURL, Parameters: params}
}

// ToMetaobjectFields maps domain fields to the client input. Every value is sent, empty or not.
func ToMetaobjectFields(fields []domain.Field) []shopifyclient.MetaobjectField {
	out := make([]shopifyclient.MetaobjectField, 0, len(fields))
	for _, f := range fields {
		value := f.Value
		out = append(out, shopifyclient.MetaobjectField{Key: f.Key, Value: &value})
	}
	return out
}

// ToProfile maps the created metaobject into the domain record. Null values become "".
func ToProfile(obj *shopifyclient.Metaobject) *domain.Profile {
	if obj == nil {
		return nil
	}
	fields := make([]domain.Field, 0, len(obj.Fields))
	for _, f := range obj.Fields {
		value := ""
		if f.Value != nil {
			value = *f.Value
		}
		fields = append(fields, domain.Field{Key: f.Key, Value: value})
	}
	return &domain.Profile{ID: obj.ID, Type: obj.Type, Fields: fields}
}

// toDomainError classifies client failures. Unparseable bodies become ErrUnexpectedResponse;
// everything else takes the kind of the failing step.
func toDomainError(err error, kind error, op string) error {
	if err == nil {
		return nil
	}
	out := &domain.Error{Kind: kind, Op: op, Err: err}

	var (
		userErrs  *shopifyclient.UserErrors
		gqlErrs   *shopifyclient.GraphQLErrors
		respErr   *shopifyclient.ResponseError
		decodeErr *shopifyclient.DecodeError
		uploadErr *shopifyclient.UploadError
	)
	switch {
	case errors.As(err, &userErrs):
		out.Err = nil
		for _, ue := range userErrs.Errors {
			out.UserErrors = append(out.UserErrors, domain.UserError{Field: ue.Field, Message: ue.Message, Code: ue.Code})
		}
	case errors.As(err, &gqlErrs):
		out.Err = nil
		out.StatusCode = gqlErrs.StatusCode
		out.Messages = gqlErrs.Messages()
	case errors.As(err, &decodeErr):
		out.Kind = domain.ErrUnexpectedResponse
		out.StatusCode = decodeErr.StatusCode
		out.Body = domain.Excerpt(decodeErr.Body)
	case errors.As(err, &respErr):
		out.StatusCode = respErr.StatusCode
		out.Body = domain.Excerpt(respErr.Body)
	case errors.As(err, &uploadErr):
		out.StatusCode = uploadErr.StatusCode
		out.Body = domain.Excerpt(uploadErr.Body)
	case errors.Is(err, shopifyclient.ErrEmptyResult):
		out.Messages = []string{"platform returned an empty result"}
	}
	return out
}
