package pipeline

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/postan/postan-api/internal/validation"
)

const bodyKey = "pipeline.body"

// Params returns the route parameters, or nil when the route declares none.
func Params(c *gin.Context) validation.Source {
	if len(c.Params) == 0 {
		return nil
	}
	src := make(validation.Source, len(c.Params))
	for _, p := range c.Params {
		src[p.Key] = p.Value
	}
	return src
}

// Query returns the first value of each query parameter. It is never nil:
// a request without a query string has an empty one.
func Query(c *gin.Context) validation.Source {
	src := validation.Source{}
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 {
			src[k] = vs[0]
		}
	}
	return src
}

// Body decodes the JSON object body once per request and caches it. An
// empty, malformed or non-object body yields nil.
func Body(c *gin.Context) validation.Source {
	if v, ok := c.Get(bodyKey); ok {
		src, _ := v.(validation.Source)
		return src
	}
	src := readBody(c)
	c.Set(bodyKey, src)
	return src
}

func readBody(c *gin.Context) validation.Source {
	if c.Request.Body == nil {
		return nil
	}
	var src validation.Source
	if err := c.ShouldBindBodyWith(&src, binding.JSON); err != nil {
		log.Debugf("unreadable body on %s: %v", c.FullPath(), err)
		return nil
	}
	return src
}
