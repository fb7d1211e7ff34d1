package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CustoZero API",
        "description": "Payment-gated financial diagnostic backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Webhooks", "description": "Payment provider callbacks"},
        {"name": "Access", "description": "Access token funnel"},
        {"name": "Diagnostics", "description": "Financial diagnostic reports"},
        {"name": "Catalog", "description": "Subscription service catalog"}
    ],
    "paths": {
        "/webhooks/kiwify": {
            "post": {
                "tags": ["Webhooks"],
                "summary": "Kiwify payment webhook",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/KiwifyWebhook"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/WebhookResponse"}},
                    "400": {"description": "Missing email or malformed payload"},
                    "401": {"description": "Invalid signature"}
                }
            }
        },
        "/webhooks/cakto": {
            "post": {
                "tags": ["Webhooks"],
                "summary": "Cakto payment webhook",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CaktoWebhook"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/WebhookResponse"}}
                }
            }
        },
        "/access/poll": {
            "post": {
                "tags": ["Access"],
                "summary": "Look up the freshest token for an email",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PollRequest"}}
                ],
                "responses": {
                    "200": {"description": "Terminal token state", "schema": {"$ref": "#/definitions/PollResponse"}},
                    "400": {"description": "Invalid email"}
                }
            }
        },
        "/access/validate": {
            "post": {
                "tags": ["Access"],
                "summary": "Check a token without consuming it",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Terminal token state", "schema": {"$ref": "#/definitions/ValidateResponse"}}
                }
            }
        },
        "/access/redeem": {
            "post": {
                "tags": ["Access"],
                "summary": "Consume a token and mint a session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Terminal token state", "schema": {"$ref": "#/definitions/ValidateResponse"}}
                }
            }
        },
        "/diagnostics": {
            "post": {
                "tags": ["Diagnostics"],
                "summary": "Compute a diagnostic from the questionnaire",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DiagnosticRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid access credential"}
                }
            }
        },
        "/diagnostics/{id}": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Fetch a cached diagnostic",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found or expired"}
                }
            }
        },
        "/diagnostics/{id}/pdf": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Download the diagnostic as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF bytes"},
                    "404": {"description": "Not found or expired"}
                }
            }
        },
        "/diagnostics/{id}/export.csv": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Download the diagnostic line items as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV bytes"},
                    "404": {"description": "Not found or expired"}
                }
            }
        },
        "/catalog/categories": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List service categories with price data",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "KiwifyWebhook": {
            "type": "object",
            "properties": {
                "order_id": {"type": "string"},
                "order_status": {"type": "string"},
                "webhook_event_type": {"type": "string"},
                "Customer": {"type": "object"},
                "Commissions": {"type": "object"}
            }
        },
        "CaktoWebhook": {
            "type": "object",
            "properties": {
                "event": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "WebhookResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "redirect_url": {"type": "string"},
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "is_lifetime": {"type": "boolean"},
                "message": {"type": "string"},
                "event": {"type": "string"}
            }
        },
        "PollRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "PollResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "created_at": {"type": "string"},
                "expires_at": {"type": "string"},
                "is_lifetime": {"type": "boolean"},
                "has_any_token": {"type": "boolean"},
                "email_sent": {"type": "boolean"},
                "expired": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "ValidateRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {
                "token": {"type": "string"}
            }
        },
        "ValidateResponse": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "email": {"type": "string"},
                "created_at": {"type": "string"},
                "expires_at": {"type": "string"},
                "is_lifetime": {"type": "boolean"},
                "session_token": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "DiagnosticRequest": {
            "type": "object",
            "required": ["services"],
            "properties": {
                "services": {"type": "array", "items": {"type": "object"}},
                "habits": {"type": "array", "items": {"type": "object"}},
                "financial_block": {"type": "object"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
