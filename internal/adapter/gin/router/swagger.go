package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"contacts-api/api/swagger"
)

const swaggerSpecPath = "/swagger/contacts.swagger.json"

// registerSwagger serves the embedded OpenAPI document and the Swagger UI
// pointing at it. Both live under one wildcard route.
func registerSwagger(router *gin.Engine) {
	ui := gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerSpecPath)))

	router.GET("/swagger/*any", func(c *gin.Context) {
		if "/swagger"+c.Param("any") == swaggerSpecPath {
			c.Data(http.StatusOK, "application/json; charset=utf-8", swagger.Spec)
			return
		}
		ui(c)
	})
}
