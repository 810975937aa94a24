package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Course timetabling service backed by a pseudo-boolean solver",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Timetable", "description": "Solve, reschedule and export the timetable"},
        {"name": "Solver Runs", "description": "Asynchronous solver invocations"},
        {"name": "Catalog", "description": "Courses, faculty and rooms"},
        {"name": "Health", "description": "Probes"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Database connectivity",
                "responses": {
                    "200": {"description": "Connected"},
                    "500": {"description": "Database unreachable"}
                }
            }
        },
        "/api/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/faculty": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List faculty",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/rooms": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List rooms",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/run-solver": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Rebuild the timetable",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Solved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No feasible timetable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Solver timed out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/reschedule": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Reschedule around faculty locks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RescheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Solved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No feasible timetable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Current timetable",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the current timetable",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
        "/api/solver-runs": {
            "post": {
                "tags": ["Solver Runs"],
                "summary": "Queue a solver run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitSolverRunRequest"}}
                ],
                "responses": {
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Queue full", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/solver-runs/{id}": {
            "get": {
                "tags": ["Solver Runs"],
                "summary": "Solver run status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired run"}
                }
            }
        }
    },
    "definitions": {
        "Lock": {
            "type": "object",
            "required": ["faculty_id"],
            "properties": {
                "faculty_id": {"type": "integer"},
                "day": {"type": "integer", "minimum": 0, "maximum": 4},
                "slot": {"type": "integer", "minimum": 0}
            }
        },
        "Entry": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "slot": {"type": "integer"},
                "course": {"type": "object"},
                "faculty": {"type": "object"},
                "room": {"type": "object"}
            }
        },
        "RescheduleRequest": {
            "type": "object",
            "required": ["previous_schedule"],
            "properties": {
                "constraints": {"type": "array", "items": {"$ref": "#/definitions/Lock"}},
                "constraint": {"$ref": "#/definitions/Lock"},
                "previous_schedule": {"type": "array", "items": {"$ref": "#/definitions/Entry"}},
                "persist": {"type": "boolean"}
            }
        },
        "SubmitSolverRunRequest": {
            "type": "object",
            "required": ["mode"],
            "properties": {
                "mode": {"type": "string", "enum": ["rebuild", "reschedule"]},
                "reschedule": {"$ref": "#/definitions/RescheduleRequest"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
