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
		c.JSON(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>insurehub-api Swagger</title>
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

// Minimal OpenAPI document describing the document and application endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "insurehub-api", "version": "v0.1.0" },
  "paths": {
    "/api/documents/upload": {
      "post": {
        "summary": "Upload a document (multipart: file, userId, policyId, documentType, optional claimId)",
        "responses": { "200": { "description": "upload result with documentId and fileUrl" }, "400": { "description": "validation error" }, "503": { "description": "storage not configured" } }
      }
    },
    "/api/documents": {
      "post": { "summary": "Record a document uploaded out of band", "responses": { "201": { "description": "created" } } },
      "get": { "summary": "List all documents", "responses": { "200": { "description": "document list" } } }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Get a document by id", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a document record and its stored file", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/users/{user_id}/documents": {
      "get": { "summary": "List a user's documents", "responses": { "200": { "description": "document list" } } }
    },
    "/api/policies/{policy_id}/documents": {
      "get": { "summary": "List a policy's documents", "responses": { "200": { "description": "document list" } } }
    },
    "/api/life-insurance": {
      "post": { "summary": "Create a life-insurance application", "responses": { "201": { "description": "application id" } } }
    },
    "/api/life-insurance/{id}": {
      "get": { "summary": "Get an application", "responses": { "200": { "description": "application" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Merge fields into an application", "responses": { "200": { "description": "updated" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
