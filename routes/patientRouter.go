package routes

import (
	controller "golang-physiobackend/controllers"

	"github.com/gin-gonic/gin"
)

// PatientRoutes are the therapist's patient-management routes, behind the
// auth middleware.
func PatientRoutes(incomingRoutes *gin.RouterGroup) {
	incomingRoutes.POST("/patients", controller.CreatePatient())
	incomingRoutes.GET("/patients", controller.GetPatients())
	incomingRoutes.GET("/patients/:code", controller.GetPatient())
	incomingRoutes.GET("/patients/:code/stats", controller.GetPatientStats())
	incomingRoutes.GET("/patients/:code/export", controller.ExportPatient())
	incomingRoutes.PUT("/patients/:code/feedback", controller.SetFeedback())
	incomingRoutes.DELETE("/patients/:code", controller.DeletePatient())
}
