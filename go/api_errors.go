package poochserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	apierrors "github.com/Apurer/pooch-profile-api/internal/shared/errors"
)

func okResponse(c *gin.Context, data any) {
	apierrors.DefaultResponder.OK(c, data)
}

// respondBindError answers requests whose body could not be decoded.
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		apierrors.DefaultResponder.BadRequest(c, "request body too large")
		return
	}
	apierrors.DefaultResponder.BadRequest(c, err.Error())
}

func (api *ProfileAPI) respondServiceError(c *gin.Context, err error) {
	apierrors.NewChainedResponder(api.exposeInternal, profileErrorMapper(api.exposeInternal)).RespondError(c, err)
}

// profileErrorMapper maps submission failures onto the envelope: 400 for invalid input and
// for user errors at any step, 502 for every other platform failure. The raw platform body
// is attached only when exposeInternal is set.
func profileErrorMapper(exposeInternal bool) apierrors.ErrorMapper {
	return func(err error) (apierrors.Failure, bool) {
		failure, ok := mapProfileError(err)
		if !ok || !exposeInternal || failure.Status != http.StatusBadGateway {
			return failure, ok
		}
		var detail *domain.Error
		if errors.As(err, &detail) && detail.Body != "" {
			failure = failure.WithDetail("body", detail.Body)
		}
		return failure, true
	}
}

func mapProfileError(err error) (apierrors.Failure, bool) {
	kind := domain.KindOf(err)
	if kind == nil {
		return apierrors.Failure{}, false
	}
	var detail *domain.Error
	errors.As(err, &detail)
	messages := detail.AllMessages()

	if kind == domain.ErrValidation || detail.HasUserErrors() {
		return apierrors.ErrBadRequest.WithMessageList(messages...), true
	}

	if len(messages) == 0 {
		messages = []string{kind.Error()}
	}
	failure := apierrors.ErrBadGateway.WithMessages(messages...).WithDetail("kind", domain.KindName(err))
	if detail != nil {
		if detail.Op != "" {
			failure = failure.WithDetail("step", detail.Op)
		}
		if detail.StatusCode != 0 {
			failure = failure.WithDetail("status", detail.StatusCode)
		}
	}
	return failure, true
}
