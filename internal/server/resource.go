package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListResources(c *gin.Context) {
	resp, err := s.resourceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetResourceByID(c *gin.Context) {
	resp, err := s.resourceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("resource_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
