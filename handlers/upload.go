package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rollahub/rolla-admin/internal/upload"
	"github.com/rollahub/rolla-admin/pkg/metrics"
)

// RegisterUploadRoutes mounts the multipart image upload endpoint.
func RegisterUploadRoutes(r *gin.Engine, svc *upload.Service) {
	r.POST("/api/upload", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No file provided"})
			return
		}
		path := c.PostForm("path")

		f, err := fileHeader.Open()
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("failed").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		defer f.Close()

		contentType := fileHeader.Header.Get("Content-Type")
		url, key, err := svc.Upload(c.Request.Context(), fileHeader.Filename, contentType, path, f, fileHeader.Size)
		if err != nil {
			var verr *upload.ValidationError
			if errors.As(err, &verr) {
				metrics.UploadsTotal.WithLabelValues("rejected").Inc()
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Msg})
				return
			}
			metrics.UploadsTotal.WithLabelValues("failed").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		metrics.UploadsTotal.WithLabelValues("ok").Inc()
		c.JSON(http.StatusOK, gin.H{"success": true, "url": url, "fileName": key})
	})
}
