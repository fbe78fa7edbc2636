package controller

import (
	"net/http"
	"strconv"

	"pmdashboard/apperr"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

// Services is what every route group needs. It is built once by the server
// and shared by all controllers.
type Services struct {
	Tokens   *services.TokenIssuer
	Auth     *services.Authenticator
	Workflow *services.Workflow
	Views    *services.Views
	Repo     *services.Repository
}

// RespondError writes err as {"code", "error"} with its mapped HTTP status.
func RespondError(c *gin.Context, err error) {
	body := gin.H{"error": apperr.Message(err)}
	if code := apperr.CodeOf(err); code != "" {
		body["code"] = code
	}
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), body)
}

// InvalidInput answers a request whose body or query failed to bind.
func InvalidInput(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "Invalid input",
		"detail": err.Error(),
		"code":   apperr.CodeInvalidInput,
	})
}

// ParamID reads a positive integer path parameter. On failure it has already
// written the response.
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
			"code":  apperr.CodeInvalidInput,
		})
		return 0, false
	}
	return id, true
}

// Actor returns the session set by the access token middleware.
func Actor(c *gin.Context) (model.Session, bool) {
	s, ok := middleware.Session(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
	}
	return s, ok
}

// Version maps an omitted version to services.AnyVersion.
func Version(v *int) int {
	if v == nil {
		return services.AnyVersion
	}
	return *v
}
