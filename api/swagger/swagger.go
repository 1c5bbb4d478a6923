package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Garage API",
        "description": "Workshop availability and appointment scheduling backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Slot and date availability queries"},
        {"name": "Mechanics", "description": "Mechanic matching"},
        {"name": "Appointments", "description": "Appointment booking"},
        {"name": "Schedules", "description": "Weekly windows and break periods"},
        {"name": "Exports", "description": "Workshop day sheets"}
    ],
    "paths": {
        "/workshops/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get a workshop's slots for a date",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "date", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/workshops/{id}/availability/dates": {
            "get": {
                "tags": ["Availability"],
                "summary": "List bookable dates in a range (max 30 days)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "start_date", "in": "query", "type": "string", "required": true},
                    {"name": "end_date", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/mechanics/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get a mechanic's slots for a date",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "date", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workshops/{id}/mechanics/availability": {
            "get": {
                "tags": ["Mechanics"],
                "summary": "List mechanics with their availability for a slot",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "time", "in": "query", "type": "string", "required": true},
                    {"name": "duration", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workshops/{id}/mechanics/slots": {
            "get": {
                "tags": ["Mechanics"],
                "summary": "Map open slots to free mechanics",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "duration", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/appointments": {
            "post": {
                "tags": ["Appointments"],
                "summary": "Book an appointment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAppointmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Workshop or mechanic not found"},
                    "409": {"description": "Slot no longer available"}
                }
            }
        },
        "/appointments/{id}": {
            "get": {
                "tags": ["Appointments"],
                "summary": "Get an appointment",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get a resource's weekly schedule and breaks",
                "parameters": [
                    {"name": "resource_id", "in": "query", "type": "string", "required": true},
                    {"name": "resource_kind", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/windows": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Create or replace a weekly window",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertScheduleWindowRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/schedule/windows/{id}": {
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a weekly window",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "resource_id", "in": "query", "type": "string", "required": true},
                    {"name": "resource_kind", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/schedule/breaks": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Add a break period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBreakPeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/schedule/breaks/{id}": {
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete a break period",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "resource_id", "in": "query", "type": "string", "required": true},
                    {"name": "resource_kind", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/workshops/{id}/day-sheet": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a workshop's day sheet",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "date", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "404": {"description": "Workshop not found"}
                }
            }
        }
    },
    "definitions": {
        "CreateAppointmentRequest": {
            "type": "object",
            "required": ["workshop_id", "customer_name", "date", "time"],
            "properties": {
                "workshop_id": {"type": "string"},
                "customer_name": {"type": "string"},
                "vehicle_info": {"type": "string"},
                "date": {"type": "string", "example": "2025-06-02"},
                "time": {"type": "string", "example": "09:00"},
                "duration": {"type": "integer", "example": 60},
                "mechanic_id": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "UpsertScheduleWindowRequest": {
            "type": "object",
            "required": ["resource_id", "resource_kind", "start_time", "end_time", "slot_duration"],
            "properties": {
                "resource_id": {"type": "string"},
                "resource_kind": {"type": "string", "enum": ["WORKSHOP", "MECHANIC"]},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "17:00"},
                "is_available": {"type": "boolean"},
                "slot_duration": {"type": "integer", "example": 60}
            }
        },
        "CreateBreakPeriodRequest": {
            "type": "object",
            "required": ["resource_id", "resource_kind", "start_date", "end_date"],
            "properties": {
                "resource_id": {"type": "string"},
                "resource_kind": {"type": "string", "enum": ["WORKSHOP", "MECHANIC"]},
                "start_date": {"type": "string", "example": "2025-12-24"},
                "end_date": {"type": "string", "example": "2025-12-26"},
                "start_time": {"type": "string", "example": "12:00"},
                "end_time": {"type": "string", "example": "13:00"},
                "reason": {"type": "string"},
                "is_recurring": {"type": "boolean"}
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
                "pagination": {"type": "object"}
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
