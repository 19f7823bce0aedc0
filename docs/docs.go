// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/api/main.go`.
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
        "/analyze": {
            "post": {
                "description": "Reads a photographed paper survey and records it for the active session",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Surveys"],
                "summary": "Submit a survey photo",
                "parameters": [
                    {"type": "file", "description": "Survey photo (JPEG, PNG or WebP, max 10MB)", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/survey.SubmitResponse"}},
                    "400": {"description": "No active session, invalid image or unreadable survey"},
                    "500": {"description": "Storage or extraction service failure"}
                }
            }
        },
        "/auth/verify": {
            "post": {
                "description": "Exchanges the shared admin secret for a short-lived admin bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Verify admin secret",
                "parameters": [
                    {"description": "Admin secret", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/auth.VerifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.AuthResponse"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/sessions": {
            "get": {
                "description": "Lists every session newest first together with the active one",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "List sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.ListSessionsResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Starts a new active session; the previous active session is closed",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Create a session",
                "parameters": [
                    {"description": "Session name", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/session.CreateSessionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.SessionResponse"}},
                    "400": {"description": "Session name is required"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/sessions/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Removes the session, its survey results and their stored images",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Delete a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.MessageResponse"}},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/sessions/{id}/close": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Close a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.SessionResponse"}},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/sessions/{id}/reactivate": {
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Makes the session the only active one",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Reactivate a session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.MessageResponse"}},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/sessions/{id}/summary": {
            "get": {
                "description": "Aggregated ratings, NPS, demographics and keywords for a session",
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Session summary",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/session.SummaryResponse"}},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/sessions/{id}/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Downloads every survey result of the session as CSV",
                "produces": ["text/csv"],
                "tags": ["Sessions"],
                "summary": "Export survey results",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "CSV file", "schema": {"type": "string"}},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/sessions/{id}/live": {
            "get": {
                "description": "Websocket stream of submissions and session changes",
                "tags": ["Sessions"],
                "summary": "Live session events",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/test/clear": {
            "post": {
                "description": "Removes every session and result. Not available in production.",
                "produces": ["application/json"],
                "tags": ["Testing"],
                "summary": "Clear all data",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Not available in production"}
                }
            }
        }
    },
    "definitions": {
        "auth.VerifyRequest": {
            "type": "object",
            "required": ["admin_secret"],
            "properties": {"admin_secret": {"type": "string"}}
        },
        "auth.AuthResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "token_type": {"type": "string"}
            }
        },
        "session.CreateSessionRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string", "maxLength": 200}}
        },
        "session.SessionResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "is_active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "closed_at": {"type": "string"}
            }
        },
        "session.ListSessionsResponse": {
            "type": "object",
            "properties": {
                "sessions": {"type": "array", "items": {"$ref": "#/definitions/session.SessionResponse"}},
                "active_session": {"$ref": "#/definitions/session.SessionResponse"}
            }
        },
        "session.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "session": {"$ref": "#/definitions/session.SessionResponse"}
            }
        },
        "session.SummaryResponse": {
            "type": "object",
            "properties": {
                "session": {"$ref": "#/definitions/session.SessionResponse"},
                "summary": {"$ref": "#/definitions/entities.SessionSummary"}
            }
        },
        "entities.Keyword": {
            "type": "object",
            "properties": {"text": {"type": "string"}, "value": {"type": "number"}}
        },
        "entities.SessionSummary": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "totalSubmissions": {"type": "integer"},
                "attendeeTypeCounts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "aiLevelCounts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "azureAIUsageCounts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "averageFeedback": {"type": "object", "additionalProperties": {"type": "number"}},
                "npsScore": {"type": "number"},
                "npsDistribution": {"type": "array", "items": {"type": "integer"}},
                "topWords": {"type": "array", "items": {"$ref": "#/definitions/entities.Keyword"}},
                "feedbackList": {"type": "array", "items": {"type": "string"}}
            }
        },
        "survey.SubmitResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "survey_result": {"type": "object"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Audience Survey API",
	Description:      "Collects photographed paper surveys during live presentations and aggregates them per session",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
