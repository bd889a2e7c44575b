package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/submit", nil)
	handler(c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestFailureEnvelope_MessageShapes(t *testing.T) {
	require.Equal(t, "boom", ErrBadGateway.WithMessages("boom").Envelope().Error)
	require.Equal(t, []string{"a", "b"}, ErrBadRequest.WithMessages("a", "b").Envelope().Error)
	require.Equal(t, "Bad Gateway", ErrBadGateway.Envelope().Error)
	require.Equal(t, []string{"Type is invalid"}, ErrBadRequest.WithMessageList("Type is invalid").Envelope().Error)
}

func TestFailure_WithDetailDoesNotShareMaps(t *testing.T) {
	base := ErrBadGateway.WithDetail("status", 403)
	other := base.WithDetail("body", "denied")
	require.Len(t, base.Details, 1)
	require.Len(t, other.Details, 2)
}

func TestResponder_OK(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		DefaultResponder.OK(c, map[string]string{"id": "gid://shopify/Metaobject/1"})
	})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, body["ok"])
	require.Equal(t, map[string]any{"id": "gid://shopify/Metaobject/1"}, body["data"])
	require.NotContains(t, body, "error")
}

func TestResponder_MethodNotAllowed(t *testing.T) {
	code, body := serve(t, DefaultResponder.MethodNotAllowed)
	require.Equal(t, http.StatusMethodNotAllowed, code)
	require.Equal(t, map[string]any{"ok": false, "error": "Method not allowed"}, body)
}

func TestResponder_RespondErrorHidesInternalText(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		RespondError(c, stderrors.New("db password leaked"))
	})
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "Internal server error", body["error"])

	_, body = serve(t, func(c *gin.Context) {
		NewResponder(true).RespondError(c, stderrors.New("boom"))
	})
	require.Equal(t, "boom", body["error"])
}

func TestChainedResponder_UsesMappers(t *testing.T) {
	sentinel := stderrors.New("rejected")
	responder := NewChainedResponder(false, func(err error) (Failure, bool) {
		if stderrors.Is(err, sentinel) {
			return ErrBadRequest.WithMessages("Type is invalid").WithDetail("kind", "rejected"), true
		}
		return Failure{}, false
	})

	code, body := serve(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("create: %w", sentinel))
	})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Type is invalid", body["error"])
	require.Equal(t, map[string]any{"kind": "rejected"}, body["details"])

	code, _ = serve(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("wrapped: %w", ErrBadGateway.WithMessages("x")))
	})
	require.Equal(t, http.StatusBadGateway, code)
}
