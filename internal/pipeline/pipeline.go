// Package pipeline composes ordered request checks into gin middleware and
// translates their failures into responses.
package pipeline

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/internal/store"
	"github.com/postan/postan-api/internal/validation"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/postan/postan-api/pkg/metrics"
)

var log = logger.Named("pipeline")

// Stage is one ordered check. Produces lists every failure kind Run may
// return; anything else is treated as an internal error.
type Stage struct {
	Name     string
	Produces []validation.FailureKind
	Run      func(c *gin.Context) error
}

func (s Stage) declares(kind validation.FailureKind) bool {
	for _, k := range s.Produces {
		if k == kind {
			return true
		}
	}
	return false
}

// statusTable maps each failure kind to its HTTP status.
var statusTable = map[validation.FailureKind]int{
	validation.KindNoSource:          http.StatusBadRequest,
	validation.KindMissingFields:     http.StatusBadRequest,
	validation.KindNoMatchingField:   http.StatusBadRequest,
	validation.KindInvalidIdentifier: http.StatusBadRequest,
	validation.KindUnknownEntity:     http.StatusBadRequest,
	validation.KindReferenceNotFound: http.StatusBadRequest,
	validation.KindConflict:          http.StatusBadRequest,
	validation.KindEntityValidation:  http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for err: the table entry of a failure
// kind, 404 for a missing read or delete target, 500 for anything else.
func StatusFor(err error) int {
	var f validation.Failure
	if errors.As(err, &f) {
		if code, ok := statusTable[f.Kind()]; ok {
			return code
		}
		return http.StatusInternalServerError
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

var exposeCause atomic.Bool

// SetExposeCause controls whether unexpected error text is returned to
// clients in the cause field of 500 responses.
func SetExposeCause(v bool) { exposeCause.Store(v) }

// Envelope builds the response for err.
func Envelope(err error) respond.Envelope {
	code := StatusFor(err)
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		e := respond.ForStatus(code).WithMessage(verr.Message())
		e.Errors = verr.Fields
		return e
	}
	var f validation.Failure
	if errors.As(err, &f) {
		return respond.ForStatus(code).WithMessage(f.Message())
	}
	if code == http.StatusNotFound {
		return respond.NotFound
	}
	e := respond.Internal
	if exposeCause.Load() {
		e.Cause = err.Error()
	}
	return e
}

// Fail aborts the request with the response for err.
func Fail(c *gin.Context, err error) {
	e := Envelope(err)
	if e.Code >= http.StatusInternalServerError {
		var f validation.Failure
		if !errors.As(err, &f) {
			log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		}
	}
	respond.Abort(c, e)
}

// Compose runs stages in order. The first failing stage writes the response
// and no later stage or handler runs.
func Compose(stages ...Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, s := range stages {
			err := s.Run(c)
			if err == nil {
				continue
			}
			var f validation.Failure
			if errors.As(err, &f) {
				if !s.declares(f.Kind()) {
					Fail(c, fmt.Errorf("stage %s produced undeclared failure %s: %s", s.Name, f.Kind(), f.Message()))
					return
				}
				metrics.PipelineFailures.WithLabelValues(s.Name, string(f.Kind())).Inc()
				log.Debugf("stage %s halted %s: %s", s.Name, c.FullPath(), f.Message())
			}
			Fail(c, err)
			return
		}
		c.Next()
	}
}
