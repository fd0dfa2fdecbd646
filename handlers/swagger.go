package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>postan API - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "postan-api", "version": "v1" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Envelope": { "type": "object", "properties": {
        "code": {"type":"integer"}, "status": {"type":"string"}, "message": {"type":"string"},
        "data": {}, "errors": {"type":"array","items":{"type":"object","properties":{"field":{"type":"string"},"message":{"type":"string"}}}}
      } }
    }
  },
  "paths": {
    "/api/v1/users/signup": {
      "post": { "summary": "Create a user", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password","username","handle"],"properties":{"email":{"type":"string"},"password":{"type":"string"},"username":{"type":"string"},"handle":{"type":"string"},"bio":{"type":"string"},"location":{"type":"string"},"avatar":{"type":"string"}}}}}},
        "responses": { "201": { "description": "user created, tokens returned" }, "400": { "description": "missing fields" }, "500": { "description": "user validation failed" } } }
    },
    "/api/v1/users/login": {
      "post": { "summary": "Log in with email and password", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens returned" }, "400": { "description": "incorrect login information" }, "404": { "description": "user not found" } } }
    },
    "/api/v1/users/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/v1/users/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/users/email/{email}": {
      "get": { "summary": "Check whether an email is in use", "responses": { "200": { "description": "data is {email} or null" } } }
    },
    "/api/v1/posts": {
      "post": { "summary": "Create a post", "security": [{"bearer": []}], "responses": { "201": { "description": "New Post created." }, "500": { "description": "post validation failed" } } }
    },
    "/api/v1/posts/{postId}": {
      "get": { "summary": "Get a post", "security": [{"bearer": []}], "responses": { "200": { "description": "post" }, "400": { "description": "invalid or unknown id" } } },
      "delete": { "summary": "Delete a post", "security": [{"bearer": []}], "responses": { "204": { "description": "deleted" }, "400": { "description": "invalid or unknown id" } } }
    },
    "/api/v1/likes": {
      "get": { "summary": "List likes by postId and/or userId", "security": [{"bearer": []}], "responses": { "200": { "description": "likes" }, "400": { "description": "no filter" }, "404": { "description": "none found" } } },
      "post": { "summary": "Like a post", "security": [{"bearer": []}], "responses": { "201": { "description": "Post liked." }, "400": { "description": "already liked" }, "500": { "description": "like validation failed" } } }
    },
    "/api/v1/likes/{likeId}": {
      "get": { "summary": "Get a like", "security": [{"bearer": []}], "responses": { "200": { "description": "like" } } },
      "delete": { "summary": "Delete a like", "security": [{"bearer": []}], "responses": { "204": { "description": "deleted" } } }
    },
    "/api/v1/followings": {
      "get": { "summary": "List followings by userFollower and/or userFollowing", "security": [{"bearer": []}], "responses": { "200": { "description": "followings" }, "404": { "description": "none found" } } },
      "post": { "summary": "Follow a user", "security": [{"bearer": []}], "responses": { "201": { "description": "New Following created." }, "400": { "description": "already following" } } }
    },
    "/api/v1/followings/{followingId}": {
      "get": { "summary": "Get a following", "security": [{"bearer": []}], "responses": { "200": { "description": "following" } } },
      "delete": { "summary": "Delete a following", "security": [{"bearer": []}], "responses": { "204": { "description": "deleted" } } }
    },
    "/api/v1/media": {
      "post": { "summary": "Upload a file (multipart field file)", "security": [{"bearer": []}], "responses": { "201": { "description": "key and url" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
