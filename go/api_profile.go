package poochserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	profilehttpmapper "github.com/Apurer/pooch-profile-api/internal/domains/profiles/adapters/http/mapper"
	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	profilesports "github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
)

// HealthMessage is the body of GET /.
const HealthMessage = "Pooch Profile App Running"

// multipartOverhead is the body allowance on top of the image limit for form fields and part headers.
const multipartOverhead = 1 << 20

// ProfileAPI wires HTTP transport with the profiles bounded context service and workflows.
type ProfileAPI struct {
	service        profilesports.Service
	workflows      profilesports.WorkflowOrchestrator
	maxUploadBytes int64
	exposeInternal bool
}

// ProfileAPIOption customises a ProfileAPI.
type ProfileAPIOption func(*ProfileAPI)

// WithMaxUploadBytes caps request bodies to the image limit plus form overhead.
func WithMaxUploadBytes(n int64) ProfileAPIOption {
	return func(api *ProfileAPI) {
		api.maxUploadBytes = n
	}
}

// WithInternalErrors includes the text of unclassified errors in responses.
func WithInternalErrors(expose bool) ProfileAPIOption {
	return func(api *ProfileAPI) {
		api.exposeInternal = expose
	}
}

// NewProfileAPI creates a ProfileAPI backed by the provided service. workflows may be nil.
func NewProfileAPI(service profilesports.Service, workflows profilesports.WorkflowOrchestrator, opts ...ProfileAPIOption) ProfileAPI {
	api := ProfileAPI{service: service, workflows: workflows}
	for _, opt := range opts {
		if opt != nil {
			opt(&api)
		}
	}
	return api
}

// Get /
// Health check
func (api *ProfileAPI) Health(c *gin.Context) {
	c.String(http.StatusOK, HealthMessage)
}

// Options /api/submit, /api/upload-file
// CORS preflight; the CORS middleware answers requests that carry an Origin.
func (api *ProfileAPI) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Post /api/submit
// Create a pooch profile, optionally uploading its image first
func (api *ProfileAPI) SubmitProfile(c *gin.Context) {
	api.limitBody(c)
	payload, upload, cleanup, err := bindSubmission(c)
	defer cleanup()
	if err != nil {
		respondBindError(c, err)
		return
	}
	input := profilehttpmapper.ToSubmitInput(payload, upload)
	proj, err := api.submit(c.Request.Context(), input)
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	okResponse(c, profilehttpmapper.FromProjection(proj))
}

func (api *ProfileAPI) submit(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	if api.workflows != nil {
		return api.workflows.SubmitProfile(ctx, input)
	}
	return api.service.SubmitProfile(ctx, input)
}

// Post /api/upload-file
// Upload and finalize an image, returning its file reference
func (api *ProfileAPI) UploadFile(c *gin.Context) {
	api.limitBody(c)
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		respondBindError(c, fmt.Errorf("expected %s", gin.MIMEMultipartPOSTForm))
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		respondBindError(c, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	upload := uploadFromForm(form, profilehttpmapper.FormUploadKey, profilehttpmapper.FormImageFile)
	ref, err := api.service.StageImage(c.Request.Context(), profiletypes.StageImageInput{Upload: upload})
	if err != nil {
		api.respondServiceError(c, err)
		return
	}
	okResponse(c, profilehttpmapper.FromFileReference(ref))
}

func (api *ProfileAPI) limitBody(c *gin.Context) {
	if api.maxUploadBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, api.maxUploadBytes+multipartOverhead)
	}
}

// bindSubmission decodes JSON, urlencoded and multipart submissions. cleanup removes any
// temporary files spooled by the multipart parser and is never nil.
func bindSubmission(c *gin.Context) (profilehttpmapper.SubmitProfileRequest, *profiletypes.ImageUpload, func(), error) {
	noop := func() {}
	var payload profilehttpmapper.SubmitProfileRequest
	switch contentType := c.ContentType(); contentType {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return payload, nil, noop, err
		}
		cleanup := func() { _ = form.RemoveAll() }
		payload = profilehttpmapper.FromForm(formValues(form))
		return payload, uploadFromForm(form, profilehttpmapper.FormImageFile), cleanup, nil
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return payload, nil, noop, err
		}
		return profilehttpmapper.FromForm(c.Request.PostForm.Get), nil, noop, nil
	case gin.MIMEJSON, "":
		if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
			return payload, nil, noop, fmt.Errorf("invalid JSON body: %w", err)
		}
		return payload, nil, noop, nil
	default:
		return payload, nil, noop, fmt.Errorf("unsupported content type %q", contentType)
	}
}

func formValues(form *multipart.Form) profilehttpmapper.FormValues {
	return func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
}

func uploadFromForm(form *multipart.Form, keys ...string) *profiletypes.ImageUpload {
	for _, key := range keys {
		files := form.File[key]
		if len(files) == 0 {
			continue
		}
		header := files[0]
		upload := &profiletypes.ImageUpload{MimeType: strings.TrimSpace(header.Header.Get("Content-Type"))}
		upload.File.InitFromMultipart(header)
		return upload
	}
	return nil
}
