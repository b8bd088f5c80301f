package lifeapp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the life-insurance application endpoints.
func RegisterRoutes(r *gin.Engine, repo Repository) {
	r.POST("/api/life-insurance", func(c *gin.Context) { createApplication(c, repo) })
	r.GET("/api/life-insurance/:id", func(c *gin.Context) { getApplication(c, repo) })
	r.PATCH("/api/life-insurance/:id", func(c *gin.Context) { patchApplication(c, repo) })
	r.GET("/api/users/:user_id/life-insurance", func(c *gin.Context) { listApplications(c, repo) })
}

func createApplication(c *gin.Context, repo Repository) {
	var payload Application
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := userIDFromPayload(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := repo.Create(c.Request.Context(), userID, payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"applicationId": id})
}

func getApplication(c *gin.Context, repo Repository) {
	doc, err := repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func patchApplication(c *gin.Context, repo Repository) {
	var fields Application
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := repo.Patch(c.Request.Context(), c.Param("id"), fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application updated"})
}

func listApplications(c *gin.Context, repo Repository) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}
	list, err := repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// userIDFromPayload accepts userId as a JSON number or numeric string; the
// wizard frontend has sent both over time.
func userIDFromPayload(payload Application) (int64, error) {
	switch v := payload["userId"].(type) {
	case float64:
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, errors.New("userId must be an integer")
		}
		return id, nil
	default:
		return 0, errors.New("userId is required")
	}
}
