package poochserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/pooch-profile-api/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this Route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API part.
type ApiHandleFunctions struct {
	// Routes for the ProfileAPI part of the API
	ProfileAPI ProfileAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing engine. Middleware must be
// installed on the engine before calling it.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodOptions:
			router.OPTIONS(route.Pattern, route.HandlerFunc)
		}
	}
	router.HandleMethodNotAllowed = true
	router.NoMethod(apierrors.DefaultResponder.MethodNotAllowed)
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound)
	})
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"Health",
			http.MethodGet,
			"/",
			handleFunctions.ProfileAPI.Health,
		},
		{
			"SubmitProfile",
			http.MethodPost,
			"/api/submit",
			handleFunctions.ProfileAPI.SubmitProfile,
		},
		{
			"SubmitProfilePreflight",
			http.MethodOptions,
			"/api/submit",
			handleFunctions.ProfileAPI.Preflight,
		},
		{
			"UploadFile",
			http.MethodPost,
			"/api/upload-file",
			handleFunctions.ProfileAPI.UploadFile,
		},
		{
			"UploadFilePreflight",
			http.MethodOptions,
			"/api/upload-file",
			handleFunctions.ProfileAPI.Preflight,
		},
	}
}
