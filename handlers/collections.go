package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rollahub/rolla-admin/internal/collection"
	"github.com/rollahub/rolla-admin/internal/store"
	"github.com/rollahub/rolla-admin/internal/users"
)

// RegisterCollectionRoutes mounts the generic collection CRUD surface.
// Every response uses the {success, data|error, count?, message?} envelope.
func RegisterCollectionRoutes(r *gin.Engine, reg *collection.Registry) {
	r.GET("/api/collections/:collection", func(c *gin.Context) {
		h := reg.For(c.Param("collection"))
		opts := store.ListOptions{
			OrderBy:   c.Query("orderBy"),
			Direction: c.DefaultQuery("orderDirection", "asc"),
		}
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				opts.Limit = n
			}
		}
		docs, err := h.List(c.Request.Context(), opts)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": docs, "count": len(docs)})
	})

	r.POST("/api/collections/:collection", func(c *gin.Context) {
		h := reg.For(c.Param("collection"))
		var fields store.Document
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		doc, err := h.Create(c.Request.Context(), fields)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
	})

	r.GET("/api/collections/:collection/:id", func(c *gin.Context) {
		h := reg.For(c.Param("collection"))
		doc, err := h.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
	})

	r.PUT("/api/collections/:collection/:id", func(c *gin.Context) {
		h := reg.For(c.Param("collection"))
		var fields store.Document
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		doc, err := h.Update(c.Request.Context(), c.Param("id"), fields)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": doc})
	})

	r.DELETE("/api/collections/:collection/:id", func(c *gin.Context) {
		h := reg.For(c.Param("collection"))
		if err := h.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Document deleted"})
	})
}

func respondError(c *gin.Context, err error) {
	var verr *users.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Msg})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Document not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
