package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mabatisales/mabati-api/internal/domain/repository"
	"github.com/mabatisales/mabati-api/internal/presentation/http/dto/response"
)

// BranchIDHeader scopes a request to one sales branch.
const BranchIDHeader = "X-Branch-ID"

// BranchMiddleware resolves the branch from the X-Branch-ID header and
// adds it to the context. Requests without the header fall through to
// the default branch when one is configured.
func BranchMiddleware(branchRepo repository.BranchRepository, defaultBranchID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(BranchIDHeader)
		if header == "" {
			if defaultBranchID != uuid.Nil {
				c.Set("branch_id", defaultBranchID)
			}
			c.Next()
			return
		}

		branchID, err := uuid.Parse(header)
		if err != nil {
			response.BadRequest(c, "Invalid branch ID")
			c.Abort()
			return
		}

		branch, err := branchRepo.GetByID(c.Request.Context(), branchID)
		if err != nil || branch == nil {
			response.NotFound(c, "Branch not found")
			c.Abort()
			return
		}

		c.Set("branch_id", branch.ID)
		c.Set("branch", branch)
		c.Next()
	}
}

// RequireBranch ensures a valid branch context exists
func RequireBranch() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchID, exists := c.Get("branch_id")
		if !exists {
			response.BadRequest(c, "Branch context required")
			c.Abort()
			return
		}

		id, ok := branchID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid branch context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetBranchID retrieves the branch ID from gin context
func GetBranchID(c *gin.Context) uuid.UUID {
	branchID, exists := c.Get("branch_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := branchID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
