// Package docs registers the OpenAPI description served at /swagger/*.
// Regenerate with `swag init -g internal/api/router.go` after changing the
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/session/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Log in to a portal",
                "parameters": [
                    {"description": "Username and portal", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Inactive account or portal mismatch", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Unknown username", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/session/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["session"],
                "summary": "Log out",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/incidents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["incidents"],
                "summary": "List incidents",
                "parameters": [
                    {"type": "string", "description": "Filter by status", "name": "status", "in": "query"},
                    {"type": "string", "description": "Search sequence number, location or driver name", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["incidents"],
                "summary": "Create an incident report",
                "parameters": [
                    {"description": "Status and report body", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.incidentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Role may not set this status", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "507": {"description": "Local storage rejected the write", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/incidents/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["incidents"],
                "summary": "Export all incidents",
                "responses": {"200": {"description": "Backup file"}}
            }
        },
        "/v1/incidents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["incidents"],
                "summary": "Get an incident",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["incidents"],
                "summary": "Save an incident",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.incidentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "507": {"description": "Insufficient Storage"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["incidents"],
                "summary": "Delete an incident locally",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/v1/accounts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List accounts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Create an account",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.accountRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Username taken"}}
            }
        },
        "/v1/accounts/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Update an account",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.accountRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["accounts"],
                "summary": "Delete an account",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Protected account"}}
            }
        },
        "/v1/accounts/{id}/toggle": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Activate or deactivate an account",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/v1/sync/test": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Test a remote connection",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.remoteSettingsRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/sync/settings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Current remote settings",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Save remote settings",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.remoteSettingsRequest"}}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Connection test failed"}}
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["portal", "username"],
            "properties": {
                "portal": {"type": "string", "enum": ["admin", "officer", "supervisor", "investigator"]},
                "username": {"type": "string"}
            }
        },
        "handler.incidentRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["draft", "signed", "pending_approval", "approved", "under_investigation", "investigated", "closed"]},
                "payload": {"type": "object"}
            }
        },
        "handler.accountRequest": {
            "type": "object",
            "required": ["full_name", "role", "username"],
            "properties": {
                "full_name": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "officer", "supervisor", "investigator"]},
                "state": {"type": "string"},
                "locality": {"type": "string"},
                "is_active": {"type": "boolean"}
            }
        },
        "handler.remoteSettingsRequest": {
            "type": "object",
            "required": ["access_key", "url"],
            "properties": {
                "url": {"type": "string"},
                "access_key": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "ORNIK8 Incident Sync API",
	Description:      "Local-first incident reports with best-effort remote mirroring.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
