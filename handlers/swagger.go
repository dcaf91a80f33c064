package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the admin gateway.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>rolla-admin — Swagger</title>
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

// Minimal OpenAPI document describing the collection CRUD and upload surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "rolla-admin", "version": "v0.1.0" },
  "paths": {
    "/api/collections/{collection}": {
      "get": {
        "summary": "List documents in a collection",
        "parameters": [
          {"name":"collection","in":"path","required":true,"schema":{"type":"string"}},
          {"name":"limit","in":"query","schema":{"type":"integer","default":100}},
          {"name":"orderBy","in":"query","schema":{"type":"string"}},
          {"name":"orderDirection","in":"query","schema":{"type":"string","enum":["asc","desc"]}}
        ],
        "responses": { "200": { "description": "documents with resolved references where declared" } }
      },
      "post": {
        "summary": "Create a document (users also provision an auth subject)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object"} } } },
        "responses": { "200": { "description": "created document" }, "400": { "description": "validation failure" } }
      }
    },
    "/api/collections/{collection}/{id}": {
      "get": { "summary": "Fetch one document", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a document (createdAt and uid are immutable)", "responses": { "200": { "description": "updated document" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a document (idempotent for users)", "responses": { "200": { "description": "deleted" } } }
    },
    "/api/upload": {
      "post": { "summary": "Upload an image (multipart: file, optional path)", "responses": { "200": { "description": "public URL and object key" }, "400": { "description": "missing file or non-image type" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
