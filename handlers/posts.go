package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/crud"
	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/pipeline"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/internal/validation"
	"github.com/postan/postan-api/pkg/middleware"
)

const msgCreatedPost = "New Post created."

// PostsHandler serves /posts. Every route requires an authenticated user.
type PostsHandler struct {
	posts *crud.Service[models.Post]
	orch  *validation.Orchestrator
	now   func() time.Time
}

func NewPostsHandler(s store.Store, orch *validation.Orchestrator) *PostsHandler {
	return &PostsHandler{
		posts: crud.NewService(models.KindPost, s, orch.ValidatePost, nil),
		orch:  orch,
		now:   time.Now,
	}
}

func (h *PostsHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/posts", auth)
	g.POST("", h.Create)
	registerByID(g, h.posts, h.orch.References(), models.PostID)
}

// Create stores a post authored by the caller. The author and timestamp
// are set here; a client-sent user or timestamp is ignored.
func (h *PostsHandler) Create(c *gin.Context) {
	src := validation.Source{}
	for k, v := range pipeline.Body(c) {
		src[k] = v
	}
	src[models.FieldUser] = middleware.UserID(c)
	src[models.FieldTimestamp] = h.now().UTC().Format(models.TimestampLayout)

	id, err := h.posts.CreateFromSource(c.Request.Context(), src, h.orch.ValidatePostSource)
	if err != nil {
		pipeline.Fail(c, err)
		return
	}
	respond.JSON(c, respond.Created.WithMessage(msgCreatedPost).WithData(gin.H{"id": id.Hex()}))
}
