package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/market", handler.GetMarketData)
		api.GET("/market/history", handler.GetMarketHistory)
		api.GET("/zipcode/:zipcode", handler.LookupZipcode)
	}
}
