package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Uniform Administration Inspection API",
        "description": "Inspection scheduling, per-cadet recording and inventory reporting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Inspections", "description": "Inspection lifecycle and deregistrations"},
        {"name": "CadetInspections", "description": "Per-cadet inspection recording"},
        {"name": "Deficiencies", "description": "Deficiency primitives"},
        {"name": "Uniforms", "description": "Inventory completeness reports"}
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
                    "503": {"description": "Unavailable"}
                }
            }
        },
        "/inspections": {
            "get": {
                "tags": ["Inspections"],
                "summary": "List planned inspections",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Inspections"],
                "summary": "Schedule an inspection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInspectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Name or date already in use"}
                }
            }
        },
        "/inspections/{id}": {
            "patch": {
                "tags": ["Inspections"],
                "summary": "Edit a planned inspection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateInspectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already started or duplicate"}
                }
            },
            "delete": {
                "tags": ["Inspections"],
                "summary": "Delete a planned inspection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already started"}
                }
            }
        },
        "/inspections/state": {
            "get": {
                "tags": ["Inspections"],
                "summary": "Derived inspection state with headline counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inspections/start": {
            "post": {
                "tags": ["Inspections"],
                "summary": "Start or reopen today's inspection",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "State does not permit starting"}
                }
            }
        },
        "/inspections/{id}/stop": {
            "post": {
                "tags": ["Inspections"],
                "summary": "Finish a started inspection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StopInspectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Not started or already finished"}
                }
            }
        },
        "/inspections/{id}/deregistrations": {
            "get": {
                "tags": ["Inspections"],
                "summary": "List deregistered cadets",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/inspections/{id}/deregistrations/{cadetId}": {
            "put": {
                "tags": ["Inspections"],
                "summary": "Exclude a cadet from an inspection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "cadetId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            },
            "delete": {
                "tags": ["Inspections"],
                "summary": "Remove a cadet's exclusion",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "cadetId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/cadets/{cadetId}/inspection": {
            "get": {
                "tags": ["CadetInspections"],
                "summary": "Inspection form data for a cadet",
                "parameters": [
                    {"name": "cadetId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No active inspection"}
                }
            },
            "put": {
                "tags": ["CadetInspections"],
                "summary": "Save a cadet's inspection submission",
                "parameters": [
                    {"name": "cadetId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveCadetInspectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No active inspection"}
                }
            }
        },
        "/cadets/{cadetId}/deficiencies": {
            "get": {
                "tags": ["Deficiencies"],
                "summary": "List a cadet's open deficiencies",
                "parameters": [
                    {"name": "cadetId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deficiencies/types": {
            "get": {
                "tags": ["Deficiencies"],
                "summary": "List deficiency types",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deficiencies": {
            "post": {
                "tags": ["Deficiencies"],
                "summary": "Record a deficiency",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDeficiencyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deficiencies/{id}/resolve": {
            "post": {
                "tags": ["Deficiencies"],
                "summary": "Resolve a deficiency",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/deficiencies/{id}/unresolve": {
            "post": {
                "tags": ["Deficiencies"],
                "summary": "Reopen a resolved deficiency",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/uniforms/counts": {
            "get": {
                "tags": ["Uniforms"],
                "summary": "Inventory counts per equipment type",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/uniforms/types/{typeId}/counts/sizes": {
            "get": {
                "tags": ["Uniforms"],
                "summary": "Inventory counts per size for one type",
                "parameters": [
                    {"name": "typeId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateInspectionRequest": {
            "type": "object",
            "required": ["name", "date"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "date": {"type": "string", "example": "2026-09-01"}
            }
        },
        "StopInspectionRequest": {
            "type": "object",
            "required": ["time"],
            "properties": {
                "time": {"type": "string", "example": "17:30"}
            }
        },
        "SaveCadetInspectionRequest": {
            "type": "object",
            "properties": {
                "uniformComplete": {"type": "boolean"},
                "oldDeficiencyList": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string"},
                            "resolved": {"type": "boolean"}
                        }
                    }
                },
                "newDeficiencyList": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "typeId": {"type": "string"},
                            "description": {"type": "string"},
                            "comment": {"type": "string"},
                            "itemId": {"type": "string"},
                            "materialId": {"type": "string"},
                            "otherMaterialId": {"type": "string"},
                            "otherMaterialGroupId": {"type": "string"}
                        }
                    }
                }
            }
        },
        "CreateDeficiencyRequest": {
            "type": "object",
            "required": ["typeId"],
            "properties": {
                "typeId": {"type": "string"},
                "description": {"type": "string", "maxLength": 200},
                "comment": {"type": "string", "maxLength": 1000},
                "cadetId": {"type": "string"},
                "itemId": {"type": "string"},
                "materialId": {"type": "string"}
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
