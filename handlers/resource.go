package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/crud"
	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/pipeline"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/internal/validation"
)

// withID is the pipeline guarding every /:id route: the param is present,
// is an object id and names a stored document of kind.
func withID(refs *validation.ReferenceChecker, kind models.Kind, param string) gin.HandlerFunc {
	return pipeline.Compose(
		pipeline.HasRouteParamsAll(param),
		pipeline.IsValidObjectID(param),
		pipeline.ObjectIDExists(refs, kind, param),
	)
}

// registerByID mounts GET and DELETE on /:param.
func registerByID[T any](g *gin.RouterGroup, svc *crud.Service[T], refs *validation.ReferenceChecker, param string) {
	guard := withID(refs, svc.Kind(), param)
	g.GET("/:"+param, guard, crud.GetByID(svc, param))
	g.DELETE("/:"+param, guard, crud.DeleteByID(svc, param))
}

// createFromBody writes the document decoded from the request body and
// answers 201 with msg.
func createFromBody[T any](svc *crud.Service[T], decode crud.SourceFunc[T], msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := svc.CreateFromSource(c.Request.Context(), pipeline.Body(c), decode)
		if err != nil {
			pipeline.Fail(c, err)
			return
		}
		respond.JSON(c, respond.Created.WithMessage(msg).WithData(gin.H{"id": id.Hex()}))
	}
}
