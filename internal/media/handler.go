package media

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/pkg/logger"
	"github.com/postan/postan-api/pkg/middleware"
)

var log = logger.Named("media")

// MaxUploadBytes caps a single uploaded file.
const MaxUploadBytes = 10 << 20

const formField = "file"

// Uploaded is the data of a successful upload.
type Uploaded struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Handler struct {
	store ObjectStore
}

func NewHandler(s ObjectStore) *Handler { return &Handler{store: s} }

func (h *Handler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	rg.POST("/media", auth, h.Upload)
}

// Upload stores the multipart "file" under <userId>/<uuid><ext>.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)
	fh, err := c.FormFile(formField)
	if err != nil {
		respond.JSON(c, respond.BadRequest.WithMessage("Missing expected req body params <file>."))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.JSON(c, respond.BadRequest)
		return
	}
	defer f.Close()

	key := objectKey(middleware.UserID(c), fh.Filename)
	ctype := fh.Header.Get("Content-Type")
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	if err := h.store.Put(c.Request.Context(), key, f, fh.Size, ctype); err != nil {
		log.Errorf("upload %s: %v", key, err)
		respond.JSON(c, respond.Unavailable)
		return
	}
	u, err := h.store.URL(c.Request.Context(), key)
	if err != nil {
		log.Errorf("url %s: %v", key, err)
		respond.JSON(c, respond.Unavailable)
		return
	}
	respond.JSON(c, respond.Created.WithData(Uploaded{Key: key, URL: u}))
}

func objectKey(owner, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if owner == "" {
		owner = "anonymous"
	}
	return owner + "/" + uuid.NewString() + ext
}
