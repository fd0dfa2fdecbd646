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

const msgCreatedFollowing = "New Following created."

type FollowingsHandler struct {
	followings *crud.Service[models.Following]
	orch       *validation.Orchestrator
}

func NewFollowingsHandler(s store.Store, orch *validation.Orchestrator) *FollowingsHandler {
	conflict := func(f *models.Following) bson.D {
		return bson.D{{Key: models.FieldFollower, Value: f.Follower}, {Key: models.FieldFollowing, Value: f.Following}}
	}
	return &FollowingsHandler{
		followings: crud.NewService(models.KindFollowing, s, orch.ValidateFollowing, conflict),
		orch:       orch,
	}
}

func (h *FollowingsHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	pair := []string{models.FieldFollower, models.FieldFollowing}
	g := rg.Group("/followings", auth)
	g.GET("",
		pipeline.Compose(pipeline.HasQueryParamsSome(pair...)),
		crud.List(h.followings, crud.QueryRefFilter(pair...)),
	)
	g.POST("",
		pipeline.Compose(
			pipeline.HasBodyParamsAll(pair...),
			pipeline.HasNoMatchingDocument(h.orch.Uniqueness(), models.KindFollowing, pipeline.BodyRefFilter(pair...)),
		),
		createFromBody(h.followings, h.orch.ValidateFollowingSource, msgCreatedFollowing),
	)
	registerByID(g, h.followings, h.orch.References(), models.FollowingID)
}
