package shopify

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shopifyclient "github.com/Apurer/pooch-profile-api/internal/clients/http/shopify"
	"github.com/Apurer/pooch-profile-api/internal/clients/http/shopify/shopifytest"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/application"
	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
)

func newFakeBackedService(t *testing.T) (*application.Service, *shopifytest.Server) {
	t.Helper()
	fake := shopifytest.NewServer()
	t.Cleanup(fake.Close)
	client, err := shopifyclient.NewClient(fake.URL, shopifytest.AccessToken, shopifytest.APIVersion, shopifyclient.WithHTTPClient(fake.Client()))
	require.NoError(t, err)
	svc := application.NewService(NewPlatform(client), application.Config{CallTimeout: 5 * time.Second})
	return svc, fake
}

func TestPlatform_SubmitWithoutImage(t *testing.T) {
	svc, fake := newFakeBackedService(t)

	proj, err := svc.SubmitProfile(context.Background(), profiletypes.SubmitProfileInput{Name: "Rex", CustomerID: "123", Breed: "Lab"})
	require.NoError(t, err)
	require.Equal(t, []string{"metaobjectCreate"}, fake.Operations())
	require.Equal(t, "pooch_profile", proj.Profile.Type)
	require.NotEmpty(t, proj.Profile.ID)

	customer, ok := proj.Profile.FieldValue(domain.FieldCustomerID)
	require.True(t, ok)
	require.Equal(t, "gid://shopify/Customer/123", customer)
	weight, ok := proj.Profile.FieldValue(domain.FieldWeight)
	require.True(t, ok)
	require.Equal(t, "", weight)
}

func TestPlatform_SubmitWithImage(t *testing.T) {
	svc, fake := newFakeBackedService(t)
	input := profiletypes.SubmitProfileInput{
		Name:       "Rex",
		CustomerID: "123",
		Image:      &profiletypes.ImageInput{Upload: profiletypes.NewImageUploadFromBytes("rex.png", "image/png", []byte("png-bytes"))},
	}

	proj, err := svc.SubmitProfile(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, []string{"stagedUploadsCreate", "stagedUpload", "fileCreate", "metaobjectCreate"}, fake.Operations())

	calls := fake.Calls()
	require.Equal(t, []string{"Content-Type", "key", "policy", "file"}, calls[1].UploadFields)
	require.Equal(t, []byte("png-bytes"), calls[1].UploadBytes)
	files := calls[2].Variables["files"].([]any)
	require.Equal(t, fake.ResourceURL(), files[0].(map[string]any)["originalSource"])

	image, ok := proj.Profile.FieldValue(domain.FieldImage)
	require.True(t, ok)
	require.Equal(t, proj.Metadata.ImageReference, image)
	require.Equal(t, domain.FieldImage, proj.Profile.Fields[0].Key)
}

func TestPlatform_ErrorClassification(t *testing.T) {
	image := func() *profiletypes.ImageInput {
		return &profiletypes.ImageInput{Upload: profiletypes.NewImageUploadFromBytes("rex.png", "image/png", []byte("png"))}
	}
	cases := []struct {
		name      string
		configure func(*shopifytest.Server)
		withImage bool
		kind      error
		also      error
		ops       []string
		messages  []string
		status    int
	}{
		{
			name:      "staging user errors",
			configure: func(s *shopifytest.Server) { s.StagedUserErrors = []map[string]any{{"field": []string{"input"}, "message": "bad mime"}} },
			withImage: true,
			kind:      domain.ErrStaging,
			ops:       []string{"stagedUploadsCreate"},
			messages:  []string{"bad mime"},
		},
		{
			name:      "upload forbidden",
			configure: func(s *shopifytest.Server) { s.UploadStatus = http.StatusForbidden; s.UploadBody = "denied" },
			withImage: true,
			kind:      domain.ErrUploadTransport,
			ops:       []string{"stagedUploadsCreate", "stagedUpload"},
			status:    http.StatusForbidden,
		},
		{
			name:      "finalize user errors",
			configure: func(s *shopifytest.Server) { s.FileUserErrors = []map[string]any{{"field": []string{"files"}, "message": "invalid source"}} },
			withImage: true,
			kind:      domain.ErrFinalization,
			ops:       []string{"stagedUploadsCreate", "stagedUpload", "fileCreate"},
			messages:  []string{"invalid source"},
		},
		{
			name: "create user errors",
			configure: func(s *shopifytest.Server) {
				s.MetaobjectUserErrors = []map[string]any{{"field": []string{"metaobject", "type"}, "message": "Type is invalid"}}
			},
			kind:     domain.ErrSubmissionRejected,
			ops:      []string{"metaobjectCreate"},
			messages: []string{"Type is invalid"},
		},
		{
			name:      "create top-level errors",
			configure: func(s *shopifytest.Server) { s.RawGraphQLResponse = `{"errors":[{"message":"Throttled"}]}` },
			kind:      domain.ErrSubmissionRejected,
			ops:       []string{"metaobjectCreate"},
			messages:  []string{"Throttled"},
			status:    http.StatusOK,
		},
		{
			name:      "create malformed body",
			configure: func(s *shopifytest.Server) { s.RawGraphQLResponse = `not json` },
			kind:      domain.ErrSubmissionRejected,
			also:      domain.ErrUnexpectedResponse,
			ops:       []string{"metaobjectCreate"},
			status:    http.StatusOK,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, fake := newFakeBackedService(t)
			tc.configure(fake)
			input := profiletypes.SubmitProfileInput{Name: "Rex", CustomerID: "1"}
			if tc.withImage {
				input.Image = image()
			}
			_, err := svc.SubmitProfile(context.Background(), input)
			require.ErrorIs(t, err, tc.kind)
			if tc.also != nil {
				require.ErrorIs(t, err, tc.also)
			}
			require.Equal(t, tc.ops, fake.Operations())

			var detail *domain.Error
			require.True(t, errors.As(err, &detail))
			if tc.messages != nil {
				require.Equal(t, tc.messages, detail.AllMessages())
			}
			if tc.status != 0 {
				require.Equal(t, tc.status, detail.StatusCode)
			}
		})
	}
}

func TestPlatform_InvalidTokenIsRejected(t *testing.T) {
	fake := shopifytest.NewServer()
	defer fake.Close()
	client, err := shopifyclient.NewClient(fake.URL, "wrong", shopifytest.APIVersion, shopifyclient.WithHTTPClient(fake.Client()))
	require.NoError(t, err)

	_, err = NewPlatform(client).CreateProfile(context.Background(), "pooch_profile", []domain.Field{{Key: "name", Value: "Rex"}})
	require.ErrorIs(t, err, domain.ErrSubmissionRejected)
	var detail *domain.Error
	require.True(t, errors.As(err, &detail))
	require.Equal(t, http.StatusUnauthorized, detail.StatusCode)
	require.Contains(t, detail.Body, "Invalid API key")
}

func TestToProfile_NullValues(t *testing.T) {
	name := "Rex"
	profile := ToProfile(&shopifyclient.Metaobject{ID: "gid://shopify/Metaobject/1", Type: "pooch_profile", Fields: []shopifyclient.MetaobjectField{
		{Key: "name", Value: &name},
		{Key: "notes", Value: nil},
	}})
	require.Equal(t, []domain.Field{{Key: "name", Value: "Rex"}, {Key: "notes", Value: ""}}, profile.Fields)
	require.Nil(t, ToProfile(nil))
}
