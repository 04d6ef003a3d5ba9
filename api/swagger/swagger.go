package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Lecture Scheduler API",
        "description": "Scheduling backend for academic lectures: rooms, lecturers, stages and conflict-checked lecture sessions.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Rooms", "description": "Lecture hall management"},
        {"name": "Stages", "description": "Cohort stages and timetable export"},
        {"name": "Lecturers", "description": "Lecturer roster and day-off registry"},
        {"name": "Lectures", "description": "Lecture sessions with conflict detection"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List rooms",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Rooms"],
                "summary": "Create room",
                "parameters": [
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/CreateRoomRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "room_name missing"},
                    "409": {"description": "Room name already exists"}
                }
            }
        },
        "/api/v1/rooms/{id}": {
            "delete": {
                "tags": ["Rooms"],
                "summary": "Delete room",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Room not found"},
                    "409": {"description": "Room referenced by lectures"}
                }
            }
        },
        "/api/v1/stages": {
            "get": {
                "tags": ["Stages"],
                "summary": "List stages",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Stages"],
                "summary": "Create stage",
                "parameters": [
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/CreateStageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "name missing"},
                    "409": {"description": "Stage name already exists"}
                }
            }
        },
        "/api/v1/stages/{id}": {
            "delete": {
                "tags": ["Stages"],
                "summary": "Delete stage",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Stage not found"},
                    "409": {"description": "Stage referenced by lectures"}
                }
            }
        },
        "/api/v1/stages/{id}/timetable/export": {
            "get": {
                "tags": ["Stages"],
                "summary": "Export a stage timetable as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "format", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered timetable"},
                    "404": {"description": "Stage not found"}
                }
            }
        },
        "/api/v1/lecturers": {
            "get": {
                "tags": ["Lecturers"],
                "summary": "List lecturers with cursor pagination and name search",
                "parameters": [
                    {"in": "query", "name": "limit", "type": "integer"},
                    {"in": "query", "name": "cursor", "type": "string"},
                    {"in": "query", "name": "search", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Lecturers"],
                "summary": "Create lecturer",
                "parameters": [
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/CreateLecturerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Missing name or invalid day_offs"}
                }
            }
        },
        "/api/v1/lecturers/{id}": {
            "delete": {
                "tags": ["Lecturers"],
                "summary": "Delete lecturer",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Lecturer not found"}
                }
            }
        },
        "/api/v1/lecturers/{id}/day-offs": {
            "put": {
                "tags": ["Lecturers"],
                "summary": "Replace a lecturer's day-off set",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/UpdateDayOffsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "400": {"description": "Invalid day_offs"},
                    "404": {"description": "Lecturer not found"}
                }
            }
        },
        "/api/v1/lectures": {
            "get": {
                "tags": ["Lectures"],
                "summary": "List lectures with period navigation",
                "parameters": [
                    {"in": "query", "name": "stage_id", "type": "string"},
                    {"in": "query", "name": "start_date", "type": "string"},
                    {"in": "query", "name": "end_date", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Lectures"],
                "summary": "Create lecture after conflict detection",
                "parameters": [
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/LectureRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Missing stage_id or invalid weekday/time"},
                    "409": {"description": "Conflicts detected (itemised list)"}
                }
            }
        },
        "/api/v1/lectures/{id}": {
            "put": {
                "tags": ["Lectures"],
                "summary": "Update lecture (excludes itself from conflict detection)",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "schema": {"$ref": "#/definitions/LectureRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated"},
                    "404": {"description": "Lecture not found"},
                    "409": {"description": "Conflicts detected (itemised list)"}
                }
            },
            "delete": {
                "tags": ["Lectures"],
                "summary": "Delete lecture and its lecturer associations",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Lecture not found"}
                }
            }
        }
    },
    "definitions": {
        "CreateRoomRequest": {
            "type": "object",
            "required": ["room_name"],
            "properties": {
                "room_name": {"type": "string"}
            }
        },
        "CreateStageRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "CreateLecturerRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "day_offs": {
                    "type": "array",
                    "items": {"type": "string", "enum": ["Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"]}
                }
            }
        },
        "UpdateDayOffsRequest": {
            "type": "object",
            "required": ["day_offs"],
            "properties": {
                "day_offs": {
                    "type": "array",
                    "items": {"type": "string", "enum": ["Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"]}
                }
            }
        },
        "LectureRequest": {
            "type": "object",
            "required": ["stage_id"],
            "properties": {
                "course_name": {"type": "string"},
                "day_of_week": {"type": "string", "enum": ["Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"]},
                "start_time": {"type": "string", "example": "09:00:00"},
                "end_time": {"type": "string", "example": "10:30:00"},
                "hours_number": {"type": "integer"},
                "room_id": {"type": "string"},
                "stage_id": {"type": "string"},
                "lecturer_ids": {"type": "array", "items": {"type": "string"}}
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
        "Conflict": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["Lecturer Day Off", "Room Conflict"]},
                "reason": {"type": "string"},
                "lecturer": {"type": "string"},
                "day": {"type": "string"},
                "room": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "conflicts": {"type": "array", "items": {"$ref": "#/definitions/Conflict"}},
                "pagination": {"type": "object"},
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
