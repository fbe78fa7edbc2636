package auth

import (
	"net/http"

	"pmdashboard/controller"
	"pmdashboard/dto"
	"pmdashboard/middleware"
	"pmdashboard/model"
	"pmdashboard/services"

	"github.com/gin-gonic/gin"
)

func AuthController(router *gin.Engine, svc *controller.Services) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, svc)
		})
		routes.POST("/signup", func(c *gin.Context) {
			Signup(c, svc)
		})
		routes.POST("/newaccesstoken", middleware.RefreshTokenMiddleware(svc.Tokens), func(c *gin.Context) {
			NewAccessToken(c, svc)
		})
	}
}

func Signin(c *gin.Context, svc *controller.Services) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	session, err := svc.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	accessToken, refreshToken, err := issueTokens(svc.Tokens, session)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login Successfully",
		"user":    session,
		"token": gin.H{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}

func Signup(c *gin.Context, svc *controller.Services) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.InvalidInput(c, err)
		return
	}

	user, err := svc.Auth.Register(c.Request.Context(), req.Username, req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

// NewAccessToken re-reads the user so a role change since sign-in is
// reflected in the new token.
func NewAccessToken(c *gin.Context, svc *controller.Services) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}

	user, err := services.ReadByID[model.User](c.Request.Context(), svc.Repo, userID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		return
	}

	accessToken, err := svc.Tokens.CreateAccessToken(model.Session{UserID: user.UserID, Username: user.Username, Role: user.Role})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

func issueTokens(tokens *services.TokenIssuer, s model.Session) (string, string, error) {
	accessToken, err := tokens.CreateAccessToken(s)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := tokens.CreateRefreshToken(s.UserID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
