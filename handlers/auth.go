package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postan/postan-api/internal/config"
	"github.com/postan/postan-api/internal/models"
	"github.com/postan/postan-api/internal/pipeline"
	"github.com/postan/postan-api/internal/respond"
	"github.com/postan/postan-api/internal/sessions"
	"github.com/postan/postan-api/internal/tokens"
	"github.com/postan/postan-api/internal/users"
	"github.com/postan/postan-api/internal/validation"
	"github.com/postan/postan-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const refreshTokenField = "refreshToken"

// Response messages of the account endpoints.
const (
	msgCreatedUser   = "Created user successfully."
	msgUserNotFound  = "User not found."
	msgIncorrectInfo = "Incorrect login information."
	msgLoggedOut     = "Logged out."
)

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	revocations *sessions.Revocations
}

// NewAuthHandler wires the account endpoints. rev may be nil, in which case
// logout only ends the refresh session.
func NewAuthHandler(cfg *config.Config, u *users.Service, s *sessions.Service, rev *sessions.Revocations) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, sessionsSvc: s, revocations: rev}
}

// Register routes under /users
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/users")
	a.POST("/signup", pipeline.Compose(
		pipeline.HasBodyParamsAll(models.FieldEmail, models.FieldPassword, models.FieldUsername, models.FieldHandle),
	), h.Signup)
	a.POST("/login", pipeline.Compose(
		pipeline.HasBodyParamsAll(models.FieldEmail, models.FieldPassword),
	), h.Login)
	a.POST("/refresh", pipeline.Compose(pipeline.HasBodyParamsAll(refreshTokenField)), h.Refresh)
	a.POST("/logout", pipeline.Compose(pipeline.HasBodyParamsAll(refreshTokenField)), h.Logout)
	a.GET("/email/:"+models.FieldEmail, pipeline.Compose(pipeline.HasRouteParamsAll(models.FieldEmail)), h.CheckEmail)
}

// tokenPair is returned on signup and login.
type tokenPair struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"`
	User         *models.User `json:"user"`
}

// Signup creates a user and opens a session for it.
func (h *AuthHandler) Signup(c *gin.Context) {
	u, err := h.usersSvc.Signup(c.Request.Context(), pipeline.Body(c))
	if err != nil {
		pipeline.Fail(c, err)
		return
	}
	pair, err := h.issue(c, u)
	if err != nil {
		pipeline.Fail(c, err)
		return
	}
	respond.JSON(c, respond.Created.WithMessage(msgCreatedUser).WithData(pair))
}

// Login checks email and password and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	body := pipeline.Body(c)
	u, err := h.usersSvc.Authenticate(c.Request.Context(), bodyString(body, models.FieldEmail), bodyString(body, models.FieldPassword))
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		respond.JSON(c, respond.NotFound.WithMessage(msgUserNotFound))
		return
	case errors.Is(err, users.ErrIncorrectLogin):
		respond.JSON(c, respond.BadRequest.WithMessage(msgIncorrectInfo))
		return
	case err != nil:
		pipeline.Fail(c, err)
		return
	}
	pair, err := h.issue(c, u)
	if err != nil {
		pipeline.Fail(c, err)
		return
	}
	respond.JSON(c, respond.OK.WithData(pair))
}

// Refresh accepts a refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	sess, err := h.sessionsSvc.ValidateRefresh(c.Request.Context(), bodyString(pipeline.Body(c), refreshTokenField))
	if err != nil {
		pipeline.Fail(c, err)
		return
	}
	if sess == nil {
		respond.JSON(c, respond.Unauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(sess.UserID)
	if err != nil {
		respond.JSON(c, respond.Unauthorized)
		return
	}
	u, err := h.usersSvc.Get(c.Request.Context(), id)
	if err != nil {
		// The account behind a live session is gone.
		logger.Warnf("refresh: session user %s: %v", sess.UserID, err)
		respond.JSON(c, respond.Unauthorized)
		return
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.accessTTL())
	if err != nil {
		pipeline.Fail(c, err)
		return
	}
	respond.JSON(c, respond.OK.WithData(gin.H{
		"accessToken": access,
		"expiresIn":   int(h.accessTTL().Seconds()),
	}))
}

// Logout invalidates the refresh token and revokes the bearer access token,
// if one was sent, for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		if claims, err := tokens.ParseAccessToken(h.cfg.JWT.Secret, raw); err == nil {
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				if err := h.revocations.Revoke(c.Request.Context(), raw, exp.Time); err != nil {
					pipeline.Fail(c, err)
					return
				}
			}
		}
	}

	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), bodyString(pipeline.Body(c), refreshTokenField)); err != nil {
		pipeline.Fail(c, err)
		return
	}
	respond.JSON(c, respond.OK.WithMessage(msgLoggedOut))
}

type emailView struct {
	Email string `json:"email"`
}

// CheckEmail reports whether an address is taken. data is null when it is
// free.
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	u, err := h.usersSvc.FindByEmail(c.Request.Context(), c.Param(models.FieldEmail))
	if err != nil {
		pipeline.Fail(c, err)
		return
	}
	var view *emailView
	if u != nil {
		view = &emailView{Email: u.Email}
	}
	respond.JSON(c, respond.OK.WithData(view))
}

func (h *AuthHandler) issue(c *gin.Context, u *models.User) (*tokenPair, error) {
	refreshTTL := h.cfg.JWT.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.ID.Hex(), refreshTTL)
	if err != nil {
		return nil, err
	}
	access, err := tokens.GenerateAccessToken(h.cfg, u, h.accessTTL())
	if err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: access, RefreshToken: rft, ExpiresIn: int(h.accessTTL().Seconds()), User: u}, nil
}

func (h *AuthHandler) accessTTL() time.Duration {
	if h.cfg.JWT.AccessTokenTTL > 0 {
		return h.cfg.JWT.AccessTokenTTL
	}
	return 15 * time.Minute
}

// bodyString reads a string field; other JSON types read as "".
func bodyString(src validation.Source, key string) string {
	s, _ := src[key].(string)
	return s
}
