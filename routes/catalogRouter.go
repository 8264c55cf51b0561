package routes

import (
	controller "golang-physiobackend/controllers"

	"github.com/gin-gonic/gin"
)

func CatalogRoutes(incomingRoutes *gin.RouterGroup) {
	incomingRoutes.GET("/catalog", controller.GetCatalog())
	incomingRoutes.GET("/catalog/regions", controller.GetRegions())
	incomingRoutes.GET("/templates", controller.GetTemplates())
}
