package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/insurehub/insurehub/backend/go-services/internal/documents"
	"github.com/insurehub/insurehub/backend/go-services/internal/documents/service"
	"github.com/insurehub/insurehub/backend/go-services/internal/storage"
	"github.com/insurehub/insurehub/backend/go-services/pkg/metrics"
)

// RegisterDocumentRoutes wires the document endpoints onto the engine.
func RegisterDocumentRoutes(r *gin.Engine, svc *service.Service) {
	r.POST("/api/documents/upload", func(c *gin.Context) { uploadDocument(c, svc) })
	r.POST("/api/documents", func(c *gin.Context) { createDocument(c, svc) })
	r.GET("/api/documents", func(c *gin.Context) { listDocuments(c, svc) })
	r.GET("/api/documents/:id", func(c *gin.Context) { getDocument(c, svc) })
	r.DELETE("/api/documents/:id", func(c *gin.Context) { deleteDocument(c, svc) })
	r.GET("/api/users/:user_id/documents", func(c *gin.Context) { listUserDocuments(c, svc) })
	r.GET("/api/policies/:policy_id/documents", func(c *gin.Context) { listPolicyDocuments(c, svc) })
}

// uploadDocument accepts a multipart form (file, userId, policyId,
// documentType, optional claimId), stores the bytes under the canonical
// folder for the type and records the document.
func uploadDocument(c *gin.Context, svc *service.Service) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	userID, err := strconv.ParseInt(c.PostForm("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId must be an integer"})
		return
	}
	policyID, err := strconv.ParseInt(c.PostForm("policyId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "policyId must be an integer"})
		return
	}
	documentType := c.PostForm("documentType")
	if documentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "documentType is required"})
		return
	}
	// claimId is optional; zero is a valid claim id, absence means pending
	var claimID *int64
	if raw := c.PostForm("claimId"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "claimId must be an integer"})
			return
		}
		claimID = &v
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	res, err := svc.Upload(c.Request.Context(), service.UploadInput{
		UserID:       userID,
		PolicyID:     policyID,
		DocumentType: documentType,
		ClaimID:      claimID,
		FileName:     fileHeader.Filename,
		Content:      content,
	})
	if err != nil {
		metrics.DocumentUploads.WithLabelValues("error").Inc()
		if errors.Is(err, service.ErrUnknownUser) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no user with id " + strconv.FormatInt(userID, 10)})
			return
		}
		if errors.Is(err, storage.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document storage is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading document: " + err.Error()})
		return
	}
	metrics.DocumentUploads.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, res)
}

// createDocument records metadata for a file uploaded out of band.
func createDocument(c *gin.Context, svc *service.Service) {
	var doc documents.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := svc.CreateRecord(c.Request.Context(), &doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "documentId": id, "message": "Document created successfully"})
}

func listDocuments(c *gin.Context, svc *service.Service) {
	list, err := svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func getDocument(c *gin.Context, svc *service.Service) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	doc, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func deleteDocument(c *gin.Context, svc *service.Service) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}
	if err := svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			metrics.DocumentDeletes.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		metrics.DocumentDeletes.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting document: " + err.Error()})
		return
	}
	metrics.DocumentDeletes.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

func listUserDocuments(c *gin.Context, svc *service.Service) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}
	list, err := svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func listPolicyDocuments(c *gin.Context, svc *service.Service) {
	policyID, err := strconv.ParseInt(c.Param("policy_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "policy_id must be an integer"})
		return
	}
	list, err := svc.ListByPolicy(c.Request.Context(), policyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}
