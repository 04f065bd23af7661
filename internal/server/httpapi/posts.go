package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/postkeeper/internal/logging"
	"github.com/gin-gonic/gin"
)

type postController struct {
	posts  PostService
	bearer gin.HandlerFunc
	logger logging.Logger
}

func newPostController(ps PostService, bearer gin.HandlerFunc, l logging.Logger) *postController {
	return &postController{posts: ps, bearer: bearer, logger: l}
}

func (pc *postController) RegisterRoutes(router *gin.RouterGroup) {
	g := router.Group("/posts", pc.bearer)
	g.POST("", pc.create)
	g.GET("", pc.list)
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int64  `json:"user_id"`
}

func (pc *postController) create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "invalid request format")
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), req.Title, req.Content, req.UserID)
	if err != nil {
		writeError(c, pc.logger, err)
		return
	}

	args := []any{"post_id", post.ID}
	if claims := claimsFrom(c); claims != nil {
		args = append(args, "author", claims.Subject)
	}
	pc.logger.Info(c.Request.Context(), "post created", args...)

	c.JSON(http.StatusCreated, post)
}

func (pc *postController) list(c *gin.Context) {
	posts, err := pc.posts.List(c.Request.Context())
	if err != nil {
		writeError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
