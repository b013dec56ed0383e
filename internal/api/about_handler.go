package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func AboutAuthor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title": "About the author",
		"text":  "Yatube is a small blogging platform for sharing posts with communities and followers.",
	})
}

func AboutTech(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title": "Technologies",
		"stack": []string{"Go", "gin", "gorm", "zap", "viper", "JWT"},
	})
}
