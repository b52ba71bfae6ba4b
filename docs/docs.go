// Package docs registers the OpenAPI description served by the Swagger UI.
// Regenerate with `swag init -g cmd/server/main.go -o docs` after changing
// handler annotations.
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
        "/recipes": {
            "get": {
                "tags": ["Recipes"], "summary": "List recipes (paginated)", "operationId": "listRecipes",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "enum": ["pending","approved","rejected"], "name": "status", "in": "query"},
                    {"type": "string", "enum": ["main-course","dessert","appetizer","soup","salad"], "name": "category", "in": "query"},
                    {"type": "string", "name": "user_id", "in": "query"},
                    {"type": "integer", "default": 1, "minimum": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "minimum": 1, "maximum": 100, "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ListRecipesResponse"}},
                    "304": {"description": "Not Modified"},
                    "400": {"description": "Bad filter", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Recipes"], "summary": "Create a recipe", "operationId": "createRecipe",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateRecipeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.RecipeResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recipes/{id}": {
            "get": {
                "tags": ["Recipes"], "summary": "Get a recipe", "operationId": "getRecipe",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecipeResponse"}},
                    "404": {"description": "Recipe not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["Recipes"], "summary": "Update a recipe", "operationId": "updateRecipe",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.UpdateRecipeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RecipeResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Recipe not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Recipes"], "summary": "Delete a recipe", "operationId": "deleteRecipe",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Recipe not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recipes/{id}/comments": {
            "get": {
                "tags": ["Comments"], "summary": "List a recipe's comments", "operationId": "listRecipeComments",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CommentsResponse"}}}
            },
            "post": {
                "tags": ["Comments"], "summary": "Comment on a recipe", "operationId": "createComment",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateCommentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Comment"}},
                    "400": {"description": "Invalid input or depth exceeded", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Recipe or parent not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recipes/{id}/rating": {
            "put": {
                "tags": ["Ratings"], "summary": "Rate a recipe", "operationId": "rateRecipe",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Rating"}},
                    "400": {"description": "Stars out of range", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/recipes/{id}/favorite": {
            "post": {
                "tags": ["Favorites"], "summary": "Save a recipe to favorites", "operationId": "addFavorite",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Favorite"}},
                    "409": {"description": "Already in favorites", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/uploads/recipe-image": {
            "post": {
                "tags": ["Uploads"], "summary": "Upload a recipe image", "operationId": "uploadRecipeImage",
                "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "image", "in": "formData", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.UploadImageResponse"}},
                    "503": {"description": "Uploads not configured", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Comment": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "recipe_id": {"type": "string"}, "user_id": {"type": "string"},
                "text": {"type": "string"}, "parent_comment_id": {"type": "string"},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "domain.Favorite": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "user_id": {"type": "string"}, "recipe_id": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Rating": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "recipe_id": {"type": "string"}, "user_id": {"type": "string"},
                "stars": {"type": "integer", "minimum": 1, "maximum": 5},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "domain.Recipe": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"},
                "image_url": {"type": "string"},
                "ingredients": {"type": "array", "items": {"type": "string"}},
                "steps": {"type": "array", "items": {"type": "string"}},
                "category": {"type": "string"}, "difficulty": {"type": "string"},
                "prep_time": {"type": "integer"}, "cook_time": {"type": "integer"},
                "user_id": {"type": "string"}, "status": {"type": "string"},
                "average_rating": {"type": "number"}, "total_favorites": {"type": "integer"}, "total_ratings": {"type": "integer"},
                "created_at": {"type": "string"}, "updated_at": {"type": "string"}
            }
        },
        "handlers.CommentsResponse": {
            "type": "object",
            "properties": {"comments": {"type": "array", "items": {"$ref": "#/definitions/domain.Comment"}}}
        },
        "handlers.CreateCommentRequest": {
            "type": "object",
            "properties": {"text": {"type": "string"}, "parent_comment_id": {"type": "string"}}
        },
        "handlers.CreateRecipeRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}, "description": {"type": "string"}, "image_url": {"type": "string"},
                "ingredients": {"type": "array", "items": {"type": "string"}},
                "steps": {"type": "array", "items": {"type": "string"}},
                "category": {"type": "string", "enum": ["main-course","dessert","appetizer","soup","salad"]},
                "difficulty": {"type": "string", "enum": ["easy","medium","hard"]},
                "prep_time": {"type": "integer", "minimum": 1}, "cook_time": {"type": "integer", "minimum": 1}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"}, "code": {"type": "string"}, "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handlers.ListRecipesResponse": {
            "type": "object",
            "properties": {
                "recipes": {"type": "array", "items": {"$ref": "#/definitions/domain.Recipe"}},
                "pagination": {"$ref": "#/definitions/handlers.Pagination"}
            }
        },
        "handlers.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"}, "page_size": {"type": "integer"}, "total": {"type": "integer"},
                "total_pages": {"type": "integer"}, "has_next": {"type": "boolean"}
            }
        },
        "handlers.RateRequest": {
            "type": "object",
            "properties": {"stars": {"type": "integer", "minimum": 1, "maximum": 5}}
        },
        "handlers.RecipeResponse": {
            "allOf": [
                {"$ref": "#/definitions/domain.Recipe"},
                {"type": "object", "properties": {"description_html": {"type": "string"}, "total_time": {"type": "integer"}}}
            ]
        },
        "handlers.UpdateRecipeRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"}, "description": {"type": "string"}, "image_url": {"type": "string"},
                "ingredients": {"type": "array", "items": {"type": "string"}},
                "steps": {"type": "array", "items": {"type": "string"}},
                "category": {"type": "string"}, "difficulty": {"type": "string"},
                "prep_time": {"type": "integer"}, "cook_time": {"type": "integer"}
            }
        },
        "handlers.UploadImageResponse": {
            "type": "object",
            "properties": {"image_url": {"type": "string"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Recipe Backend API",
	Description:      "Recipes, comments with nested replies, favorites, ratings and image uploads.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
