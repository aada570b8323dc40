package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Office Board Backend",
    "description": "Agenda aggregation and broker status API for the agency office TV",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/api/agenda": {
      "get": {
        "tags": ["agenda"],
        "summary": "Agenda",
        "produces": ["application/json"],
        "parameters": [
          {"name": "X-Tenant-Id", "in": "header", "type": "string", "required": true},
          {"name": "date", "in": "query", "type": "string", "description": "Reference day (YYYY-MM-DD)"}
        ],
        "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid tenant or query"}}
      }
    },
    "/api/agenda/week.ics": {
      "get": {
        "tags": ["agenda"],
        "summary": "Week agenda as iCalendar",
        "produces": ["text/calendar"],
        "parameters": [
          {"name": "X-Tenant-Id", "in": "header", "type": "string", "required": true},
          {"name": "date", "in": "query", "type": "string"}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/api/brokers/status": {
      "get": {
        "tags": ["brokers"],
        "summary": "Broker statuses",
        "produces": ["application/json"],
        "parameters": [
          {"name": "X-Tenant-Id", "in": "header", "type": "string", "required": true}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/api/dashboard": {
      "get": {
        "tags": ["agenda"],
        "summary": "Dashboard",
        "produces": ["application/json"],
        "parameters": [
          {"name": "X-Tenant-Id", "in": "header", "type": "string", "required": true},
          {"name": "If-None-Match", "in": "header", "type": "string"},
          {"name": "date", "in": "query", "type": "string"}
        ],
        "responses": {"200": {"description": "OK"}, "304": {"description": "Not modified"}}
      }
    },
    "/healthz": {
      "get": {
        "summary": "Health",
        "responses": {"200": {"description": "OK"}, "503": {"description": "Database unavailable"}}
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
