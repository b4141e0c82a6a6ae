package handlers

import (
	"github.com/gin-gonic/gin"
	ginSwagger "github.com/swaggo/gin-swagger"
	swaggerFiles "github.com/swaggo/files"
)

// openAPIDocument is a hand-authored OpenAPI 3 description of the gateway's
// own endpoints. It does not introspect or describe the backends it
// proxies to — those are opaque from the gateway's point of view.
var openAPIDocument = gin.H{
	"openapi": "3.0.3",
	"info": gin.H{
		"title":       "CloudSound API Gateway",
		"description": "Central API Gateway for the CloudSound platform",
		"version":     "1.0.0",
	},
	"paths": gin.H{
		"/": gin.H{
			"get": gin.H{"summary": "Gateway identity", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/api": gin.H{
			"get": gin.H{"summary": "API surface description", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/health": gin.H{
			"get": gin.H{"summary": "Liveness probe", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/health/ready": gin.H{
			"get": gin.H{"summary": "Readiness probe", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/metrics": gin.H{
			"get": gin.H{"summary": "Prometheus metrics", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/api/v1/home": gin.H{
			"get": gin.H{"summary": "Aggregated home page data", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/api/v1/dashboard": gin.H{
			"get": gin.H{"summary": "Aggregated dashboard data (authenticated)", "responses": gin.H{"200": gin.H{"description": "OK"}, "401": gin.H{"description": "Unauthorized"}}},
		},
		"/api/v1/admin/overview": gin.H{
			"get": gin.H{"summary": "Aggregated admin overview (admin only)", "responses": gin.H{"200": gin.H{"description": "OK"}, "403": gin.H{"description": "Forbidden"}}},
		},
		"/api/v1/gateway/services": gin.H{
			"get": gin.H{"summary": "List registered backend services", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/api/v1/gateway/health": gin.H{
			"get": gin.H{"summary": "Backend health rollup", "responses": gin.H{"200": gin.H{"description": "OK"}}},
		},
		"/api/v1/gateway/user": gin.H{
			"get": gin.H{"summary": "Current authenticated principal", "responses": gin.H{"200": gin.H{"description": "OK"}, "401": gin.H{"description": "Unauthorized"}}},
		},
	},
}

// OpenAPISpec serves the gateway's own OpenAPI document.
func OpenAPISpec() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, openAPIDocument)
	}
}

// Docs serves the interactive Swagger UI, pointed at /openapi.json.
func Docs() gin.HandlerFunc {
	return ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json"))
}
