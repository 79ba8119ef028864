// Package docs holds the OpenAPI document served at /swagger/. Regenerate with `swag init -g cmd/server/main.go`.
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
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "token and user"}, "401": {"description": "unauthorized"}}}},
        "/users/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Get current user", "responses": {"200": {"description": "user"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update current user", "responses": {"200": {"description": "user"}, "409": {"description": "conflict"}}}
        },
        "/admin/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List console accounts", "responses": {"200": {"description": "users and pagination"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create a console account", "responses": {"201": {"description": "user"}}}
        },
        "/admin/users/{userID}/roles/{roleCode}": {"put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Grant a role", "responses": {"200": {"description": "granted"}}}},
        "/events": {"post": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Create a new event", "responses": {"201": {"description": "event"}}}},
        "/events/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "List my events", "responses": {"200": {"description": "events"}}}},
        "/events/{eventID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Get an event by ID", "responses": {"200": {"description": "event and programs"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Update event details", "responses": {"200": {"description": "event"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Delete an event", "responses": {"200": {"description": "deleted"}}}
        },
        "/programs/validate": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Check an activity against a schedule", "responses": {"200": {"description": "schedule"}, "422": {"description": "missing_fields, inverted_range or overlap_detected"}}}},
        "/events/{eventID}/programs": {"get": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "List an event's day programs", "responses": {"200": {"description": "day programs"}}}},
        "/events/{eventID}/programs/{day}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Get one day's program", "responses": {"200": {"description": "day program"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Replace one day's program", "responses": {"200": {"description": "day program"}, "422": {"description": "rejected activity"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Delete one day's program", "responses": {"200": {"description": "deleted"}}}
        },
        "/events/{eventID}/programs/{day}/activities": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Add or edit an activity", "responses": {"200": {"description": "day program"}, "422": {"description": "rejected activity"}}}},
        "/events/{eventID}/programs/{day}/activities/{index}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Remove an activity", "responses": {"200": {"description": "day program"}}}},
        "/events/{eventID}/programs/import/sessionize/{sessionizeID}": {"post": {"security": [{"BearerAuth": []}], "tags": ["programs"], "summary": "Import day programs from Sessionize", "responses": {"200": {"description": "day programs"}, "422": {"description": "rejected activity"}}}},
        "/events/{eventID}/calendar.ics": {"get": {"tags": ["programs"], "produces": ["text/calendar"], "summary": "Download the event program as iCalendar", "responses": {"200": {"description": "iCalendar document"}}}},
        "/events/{eventID}/register": {"post": {"security": [{"BearerAuth": []}], "tags": ["attendee"], "summary": "Register the current user for an event", "responses": {"200": {"description": "already registered"}, "201": {"description": "registered"}}}},
        "/events/register-by-code": {"post": {"security": [{"BearerAuth": []}], "tags": ["attendee"], "summary": "Register for an event by event code", "responses": {"200": {"description": "already registered"}, "201": {"description": "registered"}}}},
        "/attendee/events": {"get": {"security": [{"BearerAuth": []}], "tags": ["attendee"], "summary": "List my registrations", "responses": {"200": {"description": "registrations"}}}},
        "/events/{eventID}/check-in": {"post": {"security": [{"BearerAuth": []}], "tags": ["attendee"], "summary": "Check in a ticket", "responses": {"200": {"description": "registration"}}}},
        "/events/{eventID}/attendees": {"get": {"security": [{"BearerAuth": []}], "tags": ["attendee"], "summary": "List an event's attendees", "responses": {"200": {"description": "attendees and pagination"}}}},
        "/events/{eventID}/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["attendee"], "summary": "Attendance dashboard", "responses": {"200": {"description": "counts"}}}}
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
	Title:            "Church Events API",
	Description:      "Events, day programs, registrations and check-in for the church event console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
