// Package docs registers the OpenAPI document of the receivables API with
// swag so gin-swagger can serve it. The document is maintained by hand
// alongside the router.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "TenantHeader": {"type": "apiKey", "name": "X-Tenant-ID", "in": "header"}
    },
    "security": [{"TenantHeader": []}],
    "parameters": {
        "id": {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
        "asOf": {"name": "as_of", "in": "query", "type": "string", "format": "date", "description": "Business date, defaults to today"}
    },
    "paths": {
        "/customers": {
            "get": {"tags": ["customers"], "summary": "List customers",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "order_by", "in": "query", "type": "string", "enum": ["name", "company_name", "city", "credit_limit", "created_at", "updated_at"]},
                    {"name": "order_dir", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer", "maximum": 100}
                ],
                "responses": {"200": {"$ref": "#/responses/OK"}}},
            "post": {"tags": ["customers"], "summary": "Register a customer",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CustomerRequest"}}],
                "responses": {"201": {"$ref": "#/responses/OK"}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/customers/{id}": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "get": {"tags": ["customers"], "summary": "Get a customer", "responses": {"200": {"$ref": "#/responses/OK"}, "404": {"$ref": "#/responses/Error"}}},
            "put": {"tags": ["customers"], "summary": "Replace customer details",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CustomerRequest"}}],
                "responses": {"200": {"$ref": "#/responses/OK"}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["customers"], "summary": "Delete a customer without invoices", "responses": {"204": {"description": "Deleted"}, "422": {"$ref": "#/responses/Error"}}}
        },
        "/customers/{id}/follow-ups": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "get": {"tags": ["follow-ups"], "summary": "Follow-up log of a customer", "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/customers/{id}/risk": {
            "parameters": [{"$ref": "#/parameters/id"}, {"$ref": "#/parameters/asOf"}],
            "get": {"tags": ["reports"], "summary": "Risk score of a customer", "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/invoices": {
            "get": {"tags": ["invoices"], "summary": "List invoices with derived status",
                "parameters": [
                    {"$ref": "#/parameters/asOf"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["Paid", "Partially Paid", "Pending", "Overdue", "Unpaid"]},
                    {"name": "customer_id", "in": "query", "type": "string", "format": "uuid"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"$ref": "#/responses/OK"}}},
            "post": {"tags": ["invoices"], "summary": "Issue an invoice",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/InvoiceRequest"}}],
                "responses": {"201": {"$ref": "#/responses/OK"}, "409": {"$ref": "#/responses/Error"}}}
        },
        "/invoices/{id}": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "get": {"tags": ["invoices"], "summary": "Get an invoice", "parameters": [{"$ref": "#/parameters/asOf"}],
                "responses": {"200": {"$ref": "#/responses/OK"}, "404": {"$ref": "#/responses/Error"}}},
            "delete": {"tags": ["invoices"], "summary": "Delete an invoice",
                "parameters": [{"name": "confirm", "in": "query", "type": "boolean", "description": "Required when the invoice has payments"}],
                "responses": {"204": {"description": "Deleted"}, "422": {"$ref": "#/responses/Error"}}}
        },
        "/payments": {
            "post": {"tags": ["payments"], "summary": "Record a payment against an invoice",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentRequest"}}],
                "responses": {"201": {"$ref": "#/responses/OK"}, "400": {"$ref": "#/responses/Error"}, "404": {"$ref": "#/responses/Error"}}}
        },
        "/payments/{id}/clear": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "post": {"tags": ["payments"], "summary": "Mark a pending cheque cleared", "responses": {"200": {"$ref": "#/responses/OK"}, "422": {"$ref": "#/responses/Error"}}}
        },
        "/payments/{id}/bounce": {
            "parameters": [{"$ref": "#/parameters/id"}],
            "post": {"tags": ["payments"], "summary": "Mark a pending cheque bounced", "responses": {"200": {"$ref": "#/responses/OK"}, "422": {"$ref": "#/responses/Error"}}}
        },
        "/cheques/due": {
            "get": {"tags": ["payments"], "summary": "Pending cheques due for deposit", "parameters": [{"$ref": "#/parameters/asOf"}], "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/follow-ups": {
            "post": {"tags": ["follow-ups"], "summary": "Log a follow-up",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FollowUpRequest"}}],
                "responses": {"201": {"$ref": "#/responses/OK"}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/follow-ups/due": {
            "get": {"tags": ["follow-ups"], "summary": "Follow-ups scheduled for a day", "parameters": [{"$ref": "#/parameters/asOf"}], "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/settings/reminders": {
            "get": {"tags": ["reminders"], "summary": "Reminder settings of the tenant", "responses": {"200": {"$ref": "#/responses/OK"}}},
            "put": {"tags": ["reminders"], "summary": "Replace reminder settings",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReminderSettings"}}],
                "responses": {"200": {"$ref": "#/responses/OK"}, "400": {"$ref": "#/responses/Error"}}}
        },
        "/reminders/due": {
            "get": {"tags": ["reminders"], "summary": "Reminders due on a day", "parameters": [{"$ref": "#/parameters/asOf"}], "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/reminders/dispatch": {
            "post": {"tags": ["reminders"], "summary": "Log due reminders as sent follow-ups", "parameters": [{"$ref": "#/parameters/asOf"}], "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/reports/ageing": {
            "get": {"tags": ["reports"], "summary": "Outstanding balance by ageing bucket", "parameters": [{"$ref": "#/parameters/asOf"}], "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/reports/collections": {
            "get": {"tags": ["reports"], "summary": "Realized collections per month",
                "parameters": [{"$ref": "#/parameters/asOf"}, {"name": "months", "in": "query", "type": "integer", "minimum": 1, "maximum": 24}],
                "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/reports/risk": {
            "get": {"tags": ["reports"], "summary": "Risk board of all customers", "parameters": [{"$ref": "#/parameters/asOf"}], "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/dashboard": {
            "get": {"tags": ["reports"], "summary": "Receivables summary", "parameters": [{"$ref": "#/parameters/asOf"}], "responses": {"200": {"$ref": "#/responses/OK"}}}
        },
        "/calendar": {
            "get": {"tags": ["reports"], "summary": "Due invoices and follow-ups by day",
                "parameters": [{"name": "year", "in": "query", "type": "integer"}, {"name": "month", "in": "query", "type": "integer", "minimum": 1, "maximum": 12}],
                "responses": {"200": {"$ref": "#/responses/OK"}}}
        }
    },
    "responses": {
        "OK": {"description": "Success envelope", "schema": {"$ref": "#/definitions/Response"}},
        "Error": {"description": "Error envelope", "schema": {"$ref": "#/definitions/Response"}}
    },
    "definitions": {
        "Response": {"type": "object", "properties": {
            "success": {"type": "boolean"},
            "data": {"type": "object"},
            "error": {"type": "object", "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}}}
            }}
        }},
        "CustomerRequest": {"type": "object", "required": ["name"], "properties": {
            "name": {"type": "string"}, "company_name": {"type": "string"}, "mobile": {"type": "string"},
            "email": {"type": "string"}, "city": {"type": "string"}, "address": {"type": "string"},
            "gstin": {"type": "string"}, "notes": {"type": "string"},
            "credit_limit": {"type": "string", "example": "100000"},
            "tags": {"type": "array", "items": {"type": "string"}}
        }},
        "InvoiceRequest": {"type": "object", "required": ["invoice_number", "customer_id", "date", "due_date", "amount"], "properties": {
            "invoice_number": {"type": "string"}, "customer_id": {"type": "string", "format": "uuid"},
            "job_name": {"type": "string"}, "date": {"type": "string", "format": "date"},
            "due_date": {"type": "string", "format": "date"}, "amount": {"type": "string", "example": "12500.00"},
            "currency": {"type": "string", "enum": ["INR", "USD", "EUR", "GBP", "AED"]},
            "job_type": {"type": "string"}, "notes": {"type": "string"}
        }},
        "PaymentRequest": {"type": "object", "required": ["invoice_id", "date", "amount", "mode"], "properties": {
            "invoice_id": {"type": "string", "format": "uuid"}, "customer_id": {"type": "string", "format": "uuid"},
            "date": {"type": "string", "format": "date"}, "amount": {"type": "string"},
            "mode": {"type": "string", "enum": ["Cash", "NEFT", "UPI", "Cheque"]},
            "reference": {"type": "string"}, "notes": {"type": "string"},
            "cheque": {"$ref": "#/definitions/ChequeRequest"}
        }},
        "ChequeRequest": {"type": "object", "required": ["cheque_number", "bank_name", "deposit_date"], "properties": {
            "cheque_number": {"type": "string"}, "bank_name": {"type": "string"},
            "deposit_date": {"type": "string", "format": "date"}
        }},
        "FollowUpRequest": {"type": "object", "required": ["customer_id", "date", "mode", "status"], "properties": {
            "customer_id": {"type": "string", "format": "uuid"}, "invoice_id": {"type": "string", "format": "uuid"},
            "date": {"type": "string", "format": "date"},
            "mode": {"type": "string", "enum": ["Call", "WhatsApp", "Email", "SMS", "Visit"]},
            "status": {"type": "string", "enum": ["Promised", "Will Pay", "No Answer", "Dispute", "Paid", "Not Reachable", "Sent", "Read"]}, "next_follow_up_date": {"type": "string", "format": "date"},
            "notes": {"type": "string"}, "contact_person": {"type": "string"}, "location": {"type": "string"}
        }},
        "ReminderSettings": {"type": "object", "properties": {
            "days_before_due": {"type": "integer", "minimum": 0}, "remind_on_due": {"type": "boolean"},
            "days_after_due_repeat": {"type": "integer", "minimum": 1},
            "enable_whatsapp": {"type": "boolean"}, "enable_email": {"type": "boolean"}, "enable_sms": {"type": "boolean"}
        }}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Receivables API",
	Description:      "Invoices, payments, post-dated cheques, follow-ups and collection reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
