// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

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
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Login and current user"},
        {"name": "Tasks", "description": "Task management operations"},
        {"name": "Users", "description": "User administration (Admin only)"}
    ],
    "paths": {
        "/api/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for a bearer token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "List all tasks, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/TaskResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Create a task owned by the caller",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/CreateTaskRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/TaskResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/tasks/paged": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "List one page of tasks",
                "parameters": [
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "pageSize", "type": "integer"},
                    {"in": "query", "name": "status", "type": "string", "enum": ["Pending", "InProgress", "Done"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TaskPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Get a task",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TaskResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Partially update a task",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TaskResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Tasks"],
                "summary": "Delete a task",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "List users with their task counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/UserResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Create a user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Get a user",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Change a user's email or password",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Delete a user who owns no tasks",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/api/users/{id}/role": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Change a user's role",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/UpdateRoleRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}}}
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}, "traceId": {"type": "string"}}
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "role": {"type": "string"}, "email": {"type": "string"}}
        },
        "CreateTaskRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {"title": {"type": "string", "maxLength": 100}, "description": {"type": "string", "maxLength": 500}}
        },
        "UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "maxLength": 500},
                "status": {"type": "string", "enum": ["Pending", "InProgress", "Done"]}
            }
        },
        "TaskResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["Pending", "InProgress", "Done"]},
                "createdAt": {"type": "string", "format": "date-time"},
                "createdByUserId": {"type": "string"},
                "createdByEmail": {"type": "string"}
            }
        },
        "TaskPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/TaskResponse"}},
                "totalCount": {"type": "integer"},
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "CreateUserRequest": {
            "type": "object",
            "required": ["email", "password", "role"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string", "enum": ["Admin", "Manager", "Member"]}
            }
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {"email": {"type": "string", "format": "email"}, "password": {"type": "string", "minLength": 6}}
        },
        "UpdateRoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {"role": {"type": "string", "enum": ["Admin", "Manager", "Member"]}}
        },
        "UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "taskCount": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds the exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Workplace Tasks API",
	Description:      "Role-based task management for Admin, Manager and Member accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
