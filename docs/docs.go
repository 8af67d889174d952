// Package docs registers the nutritrack OpenAPI description with swag so
// gin-swagger can serve it at /swagger/index.html. Regenerate with
// `swag init -g internal/http/router.go` after changing handler annotations.
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
        "/auth/login": {
            "post": {
                "description": "Checks the app password and starts a session. The token is set as an HttpOnly cookie and also returned for CLI use.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "operationId": "login",
                "parameters": [
                    {"description": "Password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LoginResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Incorrect password", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "description": "Clears the session cookie. Tokens already handed to CLI clients stay valid until they expire.",
                "tags": ["Auth"],
                "summary": "Log out",
                "operationId": "logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/meals": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Returns the meal history newest first. Supports a weak ETag via If-None-Match.",
                "produces": ["application/json"],
                "tags": ["Meals"],
                "summary": "List logged meals",
                "operationId": "listMeals",
                "parameters": [
                    {"type": "string", "description": "Return 304 if the ETag matches", "name": "If-None-Match", "in": "header"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListMealsResponse"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for the current history and page"}}},
                    "304": {"description": "Not Modified"},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"SessionCookie": []}],
                "description": "Computes the meal's macros from its ingredient lines and appends it to the history.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Meals"],
                "summary": "Log a meal",
                "operationId": "createMeal",
                "parameters": [
                    {"description": "Meal", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateMealRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.MealEntry"}},
                    "400": {"description": "Malformed meal", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "No ingredient resolved", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Duplicate meal id", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Nutrition API failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/meals/{id}": {
            "delete": {
                "security": [{"SessionCookie": []}],
                "description": "Removes a meal by id. Deleting an unknown id also succeeds.",
                "produces": ["application/json"],
                "tags": ["Meals"],
                "summary": "Delete a meal",
                "operationId": "deleteMeal",
                "parameters": [
                    {"type": "string", "description": "Meal id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DeleteMealResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/days/today": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Meals logged during the current local day with their rounded totals and goal progress.",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Today's totals",
                "operationId": "today",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.DayReport"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/days/{date}": {
            "get": {
                "security": [{"SessionCookie": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "One day's totals",
                "operationId": "day",
                "parameters": [
                    {"type": "string", "example": "2026-10-18", "description": "Local date (YYYY-MM-DD)", "name": "date", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.DayReport"}},
                    "400": {"description": "Malformed date", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/calendar": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "One bucket per local calendar day of the month, for the history calendar.",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Month calendar",
                "operationId": "calendar",
                "parameters": [
                    {"type": "string", "example": "2026-10", "description": "Month (YYYY-MM); defaults to the current month", "name": "month", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.MonthReport"}},
                    "400": {"description": "Malformed month", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/nutrition": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Forwards a free-text query (e.g. \"200g chicken breast and 1 cup rice\") to the nutrition API.",
                "produces": ["application/json"],
                "tags": ["Nutrition"],
                "summary": "Look up nutrition facts",
                "operationId": "lookupNutrition",
                "parameters": [
                    {"type": "string", "description": "Free-text ingredient query", "name": "query", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.LookupResult"}},
                    "400": {"description": "Missing query", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Nutrition API failed", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "No API key configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/ingredients": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Per-100g macros of the ingredients the table source resolves, in match order. With q, returns the closest spellings instead, best first.",
                "produces": ["application/json"],
                "tags": ["Nutrition"],
                "summary": "Built-in ingredient table",
                "operationId": "listIngredients",
                "parameters": [
                    {"type": "string", "description": "Ingredient name to match", "name": "q", "in": "query"},
                    {"type": "integer", "default": 3, "description": "Max suggestions (1..10)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/nutrition.Ingredient"}}},
                    "400": {"description": "Bad limit", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "nutrition.Macros": {
            "type": "object",
            "properties": {
                "protein": {"type": "number", "example": 62},
                "carbs": {"type": "number", "example": 0},
                "fiber": {"type": "number", "example": 0},
                "fats": {"type": "number", "example": 7.2},
                "kcal": {"type": "number", "example": 330}
            }
        },
        "nutrition.MealItem": {
            "type": "object",
            "properties": {
                "ingredient": {"type": "string", "example": "chicken breast"},
                "quantity": {"type": "number", "example": 200}
            }
        },
        "nutrition.Ingredient": {
            "type": "object",
            "properties": {
                "key": {"type": "string", "example": "chicken"},
                "per_100g": {"$ref": "#/definitions/nutrition.Macros"}
            }
        },
        "nutrition.Goals": {
            "type": "object",
            "properties": {
                "kcal": {"type": "number", "example": 2000},
                "protein": {"type": "number", "example": 150},
                "fiber": {"type": "number", "example": 35}
            }
        },
        "nutrition.GoalProgress": {
            "type": "object",
            "properties": {
                "kcal": {"type": "number"},
                "protein": {"type": "number"},
                "fiber": {"type": "number"}
            }
        },
        "domain.MealEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/nutrition.MealItem"}},
                "macros": {"$ref": "#/definitions/nutrition.Macros"}
            }
        },
        "history.Bucket": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-10-18"},
                "count": {"type": "integer"},
                "macros": {"$ref": "#/definitions/nutrition.Macros"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/domain.MealEntry"}}
            }
        },
        "services.DayReport": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-10-18"},
                "count": {"type": "integer"},
                "macros": {"$ref": "#/definitions/nutrition.Macros"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/domain.MealEntry"}},
                "goals": {"$ref": "#/definitions/nutrition.Goals"},
                "progress": {"$ref": "#/definitions/nutrition.GoalProgress"}
            }
        },
        "services.MonthReport": {
            "type": "object",
            "properties": {
                "month": {"type": "string", "example": "2026-10"},
                "count": {"type": "integer"},
                "macros": {"$ref": "#/definitions/nutrition.Macros"},
                "days": {"type": "array", "items": {"$ref": "#/definitions/history.Bucket"}}
            }
        },
        "calorieninjas.Item": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "calories": {"type": "number"},
                "serving_size_g": {"type": "number"},
                "protein_g": {"type": "number"},
                "carbohydrates_total_g": {"type": "number"},
                "fiber_g": {"type": "number"},
                "fat_total_g": {"type": "number"}
            }
        },
        "services.LookupResult": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "200g chicken breast"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/calorieninjas.Item"}},
                "total": {"$ref": "#/definitions/nutrition.Macros"}
            }
        },
        "handlers.CreateMealRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "timestamp": {"type": "string", "format": "date-time"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/nutrition.MealItem"}},
                "ingredient": {"type": "string", "example": "chicken breast"},
                "quantity": {"type": "number", "example": 200}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "has_next": {"type": "boolean"}
            }
        },
        "handlers.ListMealsResponse": {
            "type": "object",
            "properties": {
                "meals": {"type": "array", "items": {"$ref": "#/definitions/domain.MealEntry"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.DeleteMealResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "deleted_id": {"type": "string"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string"}
            }
        },
        "handlers.LoginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "token": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"},
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "ingredient not found"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {"type": "apiKey", "name": "nutri_auth", "in": "cookie"},
        "BearerToken": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "nutritrack API",
	Description:      "Personal meal logging with daily macro totals.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
