// Package docs holds the Swagger document served at /swagger.
// Regenerate with: swag init -g cmd/journal-service/main.go -o internal/journal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/trades": {
            "get": {
                "tags": ["trades"],
                "summary": "List all trades",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["trades"],
                "summary": "Save the draft as a new trade",
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Missing required fields"}
                }
            }
        },
        "/trades/{id}": {
            "patch": {
                "tags": ["trades"],
                "summary": "Amend an outcome field",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Trade not found"},
                    "422": {"description": "Field not amendable"}
                }
            }
        },
        "/drafts": {
            "post": {
                "tags": ["drafts"],
                "summary": "Start a new draft session",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/drafts/{id}": {
            "get": {
                "tags": ["drafts"],
                "summary": "Get the full draft state",
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["drafts"],
                "summary": "Clear the draft",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/drafts/{id}/fields/{key}": {
            "put": {
                "tags": ["drafts"],
                "summary": "Set one draft field",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/drafts/{id}/query": {
            "get": {
                "tags": ["drafts"],
                "summary": "Get the draft encoded as a query string",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["drafts"],
                "summary": "Restore draft fields from a query string",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/drafts/{id}/image": {
            "post": {
                "tags": ["drafts"],
                "summary": "Upload a chart screenshot",
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Upload already in flight"}
                }
            }
        },
        "/widgets": {
            "get": {
                "tags": ["widgets"],
                "summary": "Get the calculator widget configurations",
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Trading Journal API",
	Description:      "Personal trading journal: draft synchronization, trade records, chart screenshot uploads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
