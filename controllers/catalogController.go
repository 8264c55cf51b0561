package controllers

import (
	"net/http"

	"golang-physiobackend/program"

	"github.com/gin-gonic/gin"
)

func GetRegions() gin.HandlerFunc {
	return func(c *gin.Context) {
		regions, err := exerciseCatalog.Regions()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while loading the exercise catalog"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"regions": regions})
	}
}

// GetCatalog lists catalog exercises, filtered to a region when the query
// parameter is present. Region filtering always includes the general
// entries.
func GetCatalog() gin.HandlerFunc {
	return func(c *gin.Context) {
		region := c.Query("region")
		if region == "" {
			entries, err := exerciseCatalog.Entries()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while loading the exercise catalog"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"exercises": entries})
			return
		}
		entries, err := exerciseCatalog.ForRegion(region)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while loading the exercise catalog"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"exercises": entries})
	}
}

func GetTemplates() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"templates": program.BuiltinTemplates()})
	}
}
