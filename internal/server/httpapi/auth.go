package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

type authController struct {
	auth   AuthService
	users  UserService
	bearer gin.HandlerFunc
	logger logging.Logger
}

func newAuthController(as AuthService, us UserService, bearer gin.HandlerFunc, l logging.Logger) *authController {
	return &authController{auth: as, users: us, bearer: bearer, logger: l}
}

func (ac *authController) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/auth")
	g.POST("/register", ac.register)
	g.POST("/login", ac.login)
	g.POST("/refresh", ac.refresh)
	g.POST("/logout", ac.bearer, ac.logout)
	g.GET("/sessions/:username", ac.bearer, ac.session)
}

type credentialsRequest struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type registerResponse struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

func (ac *authController) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := ac.users.Register(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		writeError(c, ac.logger, err)
		return
	}

	ac.logger.Info(c.Request.Context(), "user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, registerResponse{ID: user.ID, UserName: user.UserName})
}

func (ac *authController) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "username and password are required")
		return
	}

	ctx := c.Request.Context()

	user, err := ac.auth.ValidateCredentials(ctx, req.UserName, req.Password)
	if err != nil {
		writeError(c, ac.logger, err)
		return
	}
	if user == nil {
		abortWithMessage(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	pair, err := ac.auth.Login(ctx, user)
	if err != nil {
		writeError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (ac *authController) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "refresh_token is required")
		return
	}

	token, err := ac.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, refreshResponse{AccessToken: token})
}

func (ac *authController) logout(c *gin.Context) {
	if err := ac.auth.Logout(c.Request.Context(), c.GetString(accessTokenKey)); err != nil {
		writeError(c, ac.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// session returns the caller's own stored token pair; other users' sessions
// are forbidden.
func (ac *authController) session(c *gin.Context) {
	userName := c.Param("username")

	claims := claimsFrom(c)
	if claims == nil || claims.UserName != userName {
		abortWithMessage(c, http.StatusForbidden, "forbidden")
		return
	}

	session, err := ac.auth.FindSessionByUsername(c.Request.Context(), userName)
	if err != nil {
		writeError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}
