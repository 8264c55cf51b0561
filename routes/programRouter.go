package routes

import (
	controller "golang-physiobackend/controllers"

	"github.com/gin-gonic/gin"
)

// ProgramRoutes are the patient-facing routes. The access code in the path
// (or the paziente query parameter on the resolver) is the only credential.
func ProgramRoutes(incomingRoutes *gin.RouterGroup) {
	incomingRoutes.GET("/program", controller.ResolveProgram())
	incomingRoutes.POST("/program/:code/exercise/:exercise/done", controller.MarkDone())
	incomingRoutes.POST("/program/:code/exercise/:exercise/undo", controller.UndoDone())
	incomingRoutes.PUT("/program/:code/exercise/:exercise/note", controller.SaveNote())
	incomingRoutes.POST("/program/:code/exercise/:exercise/video", controller.UploadVideo())
	incomingRoutes.DELETE("/program/:code/exercise/:exercise/video", controller.RemoveVideo())
}
