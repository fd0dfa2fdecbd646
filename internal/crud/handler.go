package crud

import (
	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/pipeline"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
)

// GetByID answers with the document named by the route param, or 404.
func GetByID[T any](svc *Service[T], param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.RequireObjectID(c.Param(param))
		if err != nil {
			pipeline.Fail(c, err)
			return
		}
		doc, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			pipeline.Fail(c, err)
			return
		}
		respond.JSON(c, respond.OK.WithData(doc))
	}
}

// DeleteByID answers 204 after removing the document, or 404.
func DeleteByID[T any](svc *Service[T], param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.RequireObjectID(c.Param(param))
		if err != nil {
			pipeline.Fail(c, err)
			return
		}
		if _, err := svc.Delete(c.Request.Context(), id); err != nil {
			pipeline.Fail(c, err)
			return
		}
		respond.JSON(c, respond.NoContent)
	}
}

// List answers with every document matching the filter built from the
// request. An empty result is a 404.
func List[T any](svc *Service[T], filter func(c *gin.Context) bson.D) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := svc.Find(c.Request.Context(), filter(c))
		if err != nil {
			pipeline.Fail(c, err)
			return
		}
		if len(docs) == 0 {
			respond.JSON(c, respond.NotFound)
			return
		}
		respond.JSON(c, respond.OK.WithData(docs))
	}
}

// QueryRefFilter builds a filter from the truthy query params among fields,
// comparing values that parse as object ids as ids.
func QueryRefFilter(fields ...string) func(c *gin.Context) bson.D {
	return func(c *gin.Context) bson.D {
		src := pipeline.Query(c)
		filter := bson.D{}
		for _, f := range fields {
			v, ok := src[f]
			if !ok || !validation.Truthy(v) {
				continue
			}
			if id, err := validation.RequireObjectID(v.(string)); err == nil {
				filter = append(filter, bson.E{Key: f, Value: id})
				continue
			}
			filter = append(filter, bson.E{Key: f, Value: v})
		}
		return filter
	}
}
