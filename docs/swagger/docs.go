// Package swagger holds the OpenAPI document served under /docs.
// Regenerate with: swag init -g main.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "description": "Returns build information for the running service",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Service version",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.VersionResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports liveness and whether the scraping vendor is configured",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HealthResponse"}}
                }
            }
        },
        "/api/v1/run": {
            "get": {
                "description": "Starts a Google Maps scrape. In sync mode the normalized rows are returned; in async mode a run handle to poll. With runId set, checks that run once instead of starting a new one.",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Start or poll a scrape run",
                "parameters": [
                    {"type": "string", "description": "Search text (alias: q), required unless runId is set", "name": "query", "in": "query"},
                    {"type": "string", "description": "Poll this run instead of starting one", "name": "runId", "in": "query"},
                    {"type": "string", "description": "Source id, defaults to google-maps", "name": "source", "in": "query"},
                    {"type": "integer", "description": "Top-level records to scrape (alias: maxPlaces)", "name": "maxResultCount", "in": "query"},
                    {"type": "integer", "description": "Reviews per record (alias: maxReviews)", "name": "maxSubItemCount", "in": "query"},
                    {"type": "number", "description": "Drop reviews rated below this value", "name": "minRating", "in": "query"},
                    {"type": "integer", "description": "Drop reviews older than this many days (alias: days)", "name": "maxAgeDays", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Finished run with rows", "schema": {"$ref": "#/definitions/types.RunResponse"}},
                    "202": {"description": "Run started, poll for results", "schema": {"$ref": "#/definitions/types.RunResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Missing configuration", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Scraping service unavailable or run failed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Run did not finish in time", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Same as GET /api/v1/run with the parameters in a JSON body",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Start a scrape run",
                "parameters": [
                    {"description": "Run parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.RunRequest"}}
                ],
                "responses": {
                    "200": {"description": "Finished run with rows", "schema": {"$ref": "#/definitions/types.RunResponse"}},
                    "202": {"description": "Run started, poll for results", "schema": {"$ref": "#/definitions/types.RunResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Missing configuration", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Scraping service unavailable or run failed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Run did not finish in time", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/run/{runId}": {
            "get": {
                "description": "Performs one status check. Finished runs return normalized rows; others return the current status.",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Poll a scrape run",
                "parameters": [
                    {"type": "string", "description": "Run id returned by the start call", "name": "runId", "in": "path", "required": true},
                    {"type": "integer", "description": "Reviews per record (alias: maxReviews)", "name": "maxSubItemCount", "in": "query"},
                    {"type": "number", "description": "Drop reviews rated below this value", "name": "minRating", "in": "query"},
                    {"type": "integer", "description": "Drop reviews older than this many days (alias: days)", "name": "maxAgeDays", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Current run state, with rows once SUCCEEDED", "schema": {"$ref": "#/definitions/types.RunResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Unknown run", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Scraping service unavailable or run failed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Poll budget exhausted", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/results": {
            "get": {
                "description": "Same as GET /api/v1/run/{runId} with the run id as a query parameter",
                "produces": ["application/json"],
                "tags": ["runs"],
                "summary": "Poll a scrape run",
                "parameters": [
                    {"type": "string", "description": "Run id returned by the start call", "name": "runId", "in": "query", "required": true},
                    {"type": "integer", "description": "Reviews per record (alias: maxReviews)", "name": "maxSubItemCount", "in": "query"},
                    {"type": "number", "description": "Drop reviews rated below this value", "name": "minRating", "in": "query"},
                    {"type": "integer", "description": "Drop reviews older than this many days (alias: days)", "name": "maxAgeDays", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Current run state, with rows once SUCCEEDED", "schema": {"$ref": "#/definitions/types.RunResponse"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Unknown run", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "Scraping service unavailable or run failed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Poll budget exhausted", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sources": {
            "get": {
                "description": "Lists every selectable source and whether it is wired to a scraping actor",
                "produces": ["application/json"],
                "tags": ["sources"],
                "summary": "List sources",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.SourcesResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ResultRow": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "kind": {"type": "string", "enum": ["business", "review", "other"]},
                "source": {"type": "string"},
                "snippet": {"type": "string"},
                "url": {"type": "string"},
                "rating": {"type": "number"},
                "date": {"type": "string"}
            }
        },
        "models.SourceInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "wired": {"type": "boolean"}
            }
        },
        "types.RunRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "Acme Co"},
                "q": {"type": "string"},
                "source": {"type": "string", "example": "google-maps"},
                "maxResultCount": {"type": "integer", "example": 8},
                "maxSubItemCount": {"type": "integer", "example": 20},
                "minRating": {"type": "number", "example": 3},
                "maxAgeDays": {"type": "integer", "example": 30}
            }
        },
        "types.RunResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["PENDING", "RUNNING", "SUCCEEDED", "FAILED", "TIMED_OUT"], "example": "SUCCEEDED"},
                "runId": {"type": "string", "example": "HG7ML7M8z78YcAPEB"},
                "datasetId": {"type": "string"},
                "startedAt": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.ResultRow"}},
                "count": {"type": "integer"}
            }
        },
        "types.SourcesResponse": {
            "type": "object",
            "properties": {
                "sources": {"type": "array", "items": {"$ref": "#/definitions/models.SourceInfo"}},
                "default": {"type": "string", "example": "google-maps"}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid query: must not be empty"},
                "code": {"type": "string", "example": "INVALID_REQUEST"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "types.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "timestamp": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "types.VersionResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "version": {"type": "string"},
                "gitCommit": {"type": "string"},
                "buildDate": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Research API",
	Description:      "Starts Google Maps scrape runs through Apify and returns normalized result rows",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
