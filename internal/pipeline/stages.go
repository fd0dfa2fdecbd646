package pipeline

import (
	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/validation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var presenceFailures = []validation.FailureKind{validation.KindNoSource, validation.KindMissingFields}

func HasRouteParamsAll(params ...string) Stage {
	return Stage{
		Name:     "hasRouteParamsAll",
		Produces: presenceFailures,
		Run: func(c *gin.Context) error {
			return validation.RequireAll(validation.SourceParams, Params(c), params...)
		},
	}
}

func HasBodyParamsAll(params ...string) Stage {
	return Stage{
		Name:     "hasBodyParamsAll",
		Produces: presenceFailures,
		Run: func(c *gin.Context) error {
			return validation.RequireAll(validation.SourceBody, Body(c), params...)
		},
	}
}

func HasBodyParamsSome(params ...string) Stage {
	return Stage{
		Name:     "hasBodyParamsSome",
		Produces: []validation.FailureKind{validation.KindNoSource, validation.KindNoMatchingField},
		Run: func(c *gin.Context) error {
			return validation.RequireSome(validation.SourceBody, Body(c), params...)
		},
	}
}

// HasQueryParamsSome is the list-endpoint filter check.
func HasQueryParamsSome(params ...string) Stage {
	return Stage{
		Name:     "hasQueryParamsSome",
		Produces: []validation.FailureKind{validation.KindNoSource, validation.KindNoMatchingField},
		Run: func(c *gin.Context) error {
			return validation.RequireSome(validation.SourceQuery, Query(c), params...)
		},
	}
}

// IsValidObjectID checks the route param is an object id.
func IsValidObjectID(param string) Stage {
	return Stage{
		Name:     "isValidObjectId",
		Produces: []validation.FailureKind{validation.KindInvalidIdentifier},
		Run: func(c *gin.Context) error {
			_, err := validation.RequireObjectID(c.Param(param))
			return err
		},
	}
}

// ObjectIDExists checks the route param names a stored document of kind.
// Run it after IsValidObjectID.
func ObjectIDExists(refs *validation.ReferenceChecker, kind models.Kind, param string) Stage {
	return Stage{
		Name:     "objectIdExists",
		Produces: []validation.FailureKind{validation.KindInvalidIdentifier, validation.KindUnknownEntity, validation.KindReferenceNotFound},
		Run: func(c *gin.Context) error {
			id, err := validation.RequireObjectID(c.Param(param))
			if err != nil {
				return err
			}
			return refs.RequireRef(c.Request.Context(), kind, id)
		},
	}
}

// HasNoMatchingDocument fails when a document of kind matches the filter
// built from the request.
func HasNoMatchingDocument(guard *validation.UniquenessGuard, kind models.Kind, filter func(c *gin.Context) bson.D) Stage {
	return Stage{
		Name:     "hasNoMatchingDocument",
		Produces: []validation.FailureKind{validation.KindConflict},
		Run: func(c *gin.Context) error {
			return guard.RequireNoMatch(c.Request.Context(), kind, filter(c))
		},
	}
}

// BodyRefFilter builds an equality filter over body fields holding
// references. Values that parse as object ids are compared as ids.
func BodyRefFilter(fields ...string) func(c *gin.Context) bson.D {
	return func(c *gin.Context) bson.D {
		src := Body(c)
		filter := make(bson.D, 0, len(fields))
		for _, f := range fields {
			v := src[f]
			if s, ok := v.(string); ok {
				if id, err := primitive.ObjectIDFromHex(s); err == nil {
					v = id
				}
			}
			filter = append(filter, bson.E{Key: f, Value: v})
		}
		return filter
	}
}
