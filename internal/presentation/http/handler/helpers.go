package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetBranchID extracts the branch ID from the Gin context
func GetBranchID(c *gin.Context) *uuid.UUID {
	branchIDVal, exists := c.Get("branch_id")
	if !exists {
		return nil
	}
	branchID, ok := branchIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &branchID
}

// parseIDParam parses a UUID path parameter
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
