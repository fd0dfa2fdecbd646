package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/crud"
	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/pipeline"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
)

const msgCreatedLike = "Post liked."

type LikesHandler struct {
	likes *crud.Service[models.Like]
	orch  *validation.Orchestrator
}

func NewLikesHandler(s store.Store, orch *validation.Orchestrator) *LikesHandler {
	conflict := func(l *models.Like) bson.D {
		return bson.D{{Key: models.PostID, Value: l.PostID}, {Key: models.UserID, Value: l.UserID}}
	}
	return &LikesHandler{
		likes: crud.NewService(models.KindLike, s, orch.ValidateLike, conflict),
		orch:  orch,
	}
}

func (h *LikesHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/likes", auth)
	g.GET("",
		pipeline.Compose(pipeline.HasQueryParamsSome(models.PostID, models.UserID)),
		crud.List(h.likes, crud.QueryRefFilter(models.PostID, models.UserID)),
	)
	g.POST("",
		pipeline.Compose(
			pipeline.HasBodyParamsAll(models.PostID, models.UserID),
			pipeline.HasNoMatchingDocument(h.orch.Uniqueness(), models.KindLike, pipeline.BodyRefFilter(models.PostID, models.UserID)),
		),
		createFromBody(h.likes, h.orch.ValidateLikeSource, msgCreatedLike),
	)
	registerByID(g, h.likes, h.orch.References(), models.LikeID)
}
