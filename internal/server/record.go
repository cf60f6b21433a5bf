package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListRecordsByResourceID(c *gin.Context) {
	resp, err := s.recordSvc.ListByResourceID(c.Request.Context(), strings.TrimSpace(c.Param("resource_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
