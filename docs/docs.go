// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/portal/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Login",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/auth/session": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current session",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}
            }
        },
        "/views/{view}": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["views"], "summary": "Resolve a view",
                "parameters": [{"type": "string", "description": "View name", "name": "view", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.viewResponse"}},
                    "303": {"description": "Redirect to /login or /dashboard"}
                }
            }
        },
        "/navigation": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["views"], "summary": "Navigation menu",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.navigationResponse"}}}
            }
        },
        "/notifications": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Pending notifications",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.notificationsResponse"}}}
            }
        },
        "/accounts/eligible": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["transfers"], "summary": "Eligible source accounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.eligibleAccountsResponse"}},
                    "303": {"description": "Redirect when not authorized"}
                }
            }
        },
        "/transfers": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["transfers"], "summary": "Open a transfer draft",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.TransferIntent"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.DenialResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/middleware.DenialResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/transfers/{id}": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["transfers"], "summary": "Get a transfer draft",
                "parameters": [{"type": "string", "description": "Intent ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TransferIntent"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}], "tags": ["transfers"], "summary": "Edit a transfer draft",
                "parameters": [
                    {"type": "string", "description": "Intent ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.draftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TransferIntent"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["transfers"], "summary": "Cancel a transfer draft",
                "parameters": [{"type": "string", "description": "Intent ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/transfers/{id}/submit": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["transfers"], "summary": "Submit a transfer",
                "parameters": [
                    {"type": "string", "description": "Intent ID", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/handler.submitRequest"}}
                ],
                "responses": {
                    "201": {"description": "succeeded", "schema": {"$ref": "#/definitions/handler.submitResponse"}},
                    "409": {"description": "key_conflict or submission in progress", "schema": {"$ref": "#/definitions/handler.submitResponse"}},
                    "422": {"description": "local validation, or retryable_failure rejected by the bank", "schema": {"$ref": "#/definitions/handler.submitResponse"}},
                    "503": {"description": "retryable_failure, bank unavailable", "schema": {"$ref": "#/definitions/handler.submitResponse"}}
                }
            }
        },
        "/health": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
        "/health/ready": {"get": {"tags": ["health"], "summary": "Readiness", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    },
    "definitions": {
        "domain.FieldError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "domain.Identity": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "email": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "BANKER", "CLIENT"]},
                "first_name": {"type": "string"}, "last_name": {"type": "string"}
            }
        },
        "domain.Session": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "identity": {"$ref": "#/definitions/domain.Identity"},
                "authenticated": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "iban": {"type": "string"}, "currency": {"type": "string"},
                "balance": {"type": "string"}, "status": {"type": "string"}, "has_linked_card": {"type": "boolean"}
            }
        },
        "domain.Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "bank_account": {"type": "string"}, "account_iban": {"type": "string"},
                "transaction_type": {"type": "string"}, "amount": {"type": "string"}, "currency": {"type": "string"},
                "description": {"type": "string"}, "reference_iban": {"type": "string"},
                "balance_after": {"type": "string"}, "created_at": {"type": "string"}
            }
        },
        "domain.TransferIntent": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "string", "enum": ["draft", "submitting"]},
                "source_account": {"type": "string"}, "target_iban": {"type": "string"},
                "amount": {"type": "string"}, "description": {"type": "string"},
                "idempotency_key": {"type": "string"},
                "eligible_accounts": {"type": "array", "items": {"$ref": "#/definitions/domain.Account"}},
                "attempts": {"type": "integer"},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "middleware.DenialResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "reason": {"type": "string"}, "redirect": {"type": "string"}}
        },
        "service.MenuItem": {
            "type": "object",
            "properties": {"path": {"type": "string"}, "label": {"type": "string"}}
        },
        "ports.Notification": {
            "type": "object",
            "properties": {"level": {"type": "string"}, "outcome": {"type": "string"}, "intent_id": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "session": {"$ref": "#/definitions/domain.Session"},
                "navigation": {"type": "array", "items": {"$ref": "#/definitions/service.MenuItem"}}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "session": {"$ref": "#/definitions/domain.Session"},
                "navigation": {"type": "array", "items": {"$ref": "#/definitions/service.MenuItem"}}
            }
        },
        "handler.viewResponse": {
            "type": "object",
            "properties": {"view": {"type": "string"}, "allowed": {"type": "boolean"}}
        },
        "handler.navigationResponse": {
            "type": "object",
            "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/service.MenuItem"}}}
        },
        "handler.notificationsResponse": {
            "type": "object",
            "properties": {"notifications": {"type": "array", "items": {"$ref": "#/definitions/ports.Notification"}}}
        },
        "handler.eligibleAccountsResponse": {
            "type": "object",
            "properties": {"accounts": {"type": "array", "items": {"$ref": "#/definitions/domain.Account"}}}
        },
        "handler.draftRequest": {
            "type": "object",
            "properties": {
                "source_account": {"type": "string"}, "target_iban": {"type": "string"},
                "amount": {"type": "string"}, "description": {"type": "string", "maxLength": 255}
            }
        },
        "handler.submitRequest": {
            "type": "object",
            "properties": {
                "source_account": {"type": "string"}, "target_iban": {"type": "string"},
                "amount": {"type": "string"}, "description": {"type": "string", "maxLength": 255}
            }
        },
        "handler.submitResponse": {
            "type": "object",
            "properties": {
                "outcome": {"type": "string", "enum": ["succeeded", "retryable_failure", "key_conflict"]},
                "message": {"type": "string"},
                "field_errors": {"type": "array", "items": {"$ref": "#/definitions/domain.FieldError"}},
                "transaction": {"$ref": "#/definitions/domain.Transaction"},
                "intent": {"$ref": "#/definitions/domain.TransferIntent"},
                "next_intent": {"$ref": "#/definitions/domain.TransferIntent"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}, "code": {"type": "string"},
                "field_errors": {"type": "array", "items": {"$ref": "#/definitions/domain.FieldError"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Portal Gateway API",
	Description:      "Session gate and idempotent transfer submission in front of the bank REST service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
