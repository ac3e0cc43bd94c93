package handlers

import (
	"context"
	"fmt"
	"net/http"

	"tenanthub-backend/knowledge-service/middleware"
	"tenanthub-backend/knowledge-service/services"
	"tenanthub-backend/shared/database/models/knowledge"
	"tenanthub-backend/shared/utils/permission"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	db    *gorm.DB
	minio *services.MinIOService
}

func NewDocumentHandler(db *gorm.DB, minio *services.MinIOService) *DocumentHandler {
	return &DocumentHandler{db: db, minio: minio}
}

func (h *DocumentHandler) requirePermission(ctx *gin.Context, workspaceID uuid.UUID, action permission.Action) bool {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return false
	}

	allowed, err := permission.Can(h.db, userID, workspaceID, permission.ResourceKnowledgeBase, action)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permissions"})
		return false
	}
	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to perform this action"})
		return false
	}
	return true
}

// UploadDocument uploads a file into a knowledge base
// @Summary Upload a document
// @Description Upload a file into a knowledge base. The object is stored under the workspace-scoped key. Requires knowledgeBase.create.
// @Tags knowledge
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Knowledge base ID" format(uuid)
// @Param file formData file true "Document file to upload"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Uploaded document"
// @Failure 400 {object} map[string]string "Invalid file"
// @Failure 403 {object} map[string]string "Missing knowledgeBase.create"
// @Failure 409 {object} map[string]string "A document with that name already exists"
// @Router /knowledge/bases/{id}/documents [post]
func (h *DocumentHandler) UploadDocument(ctx *gin.Context) {
	baseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid knowledge base ID format"})
		return
	}

	var base knowledge.KnowledgeBase
	if err := h.db.First(&base, baseID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Knowledge base not found"})
		return
	}

	if !h.requirePermission(ctx, base.WorkspaceID, permission.ActionCreate) {
		return
	}
	userID, _ := middleware.UserID(ctx)

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	if err := validateUpload(header); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileName := sanitizeFileName(header.Filename)
	objectKey := fmt.Sprintf("%s/%s/%s", base.WorkspaceID, base.ID, fileName)

	// The object key is unique, one file name per knowledge base
	var existing knowledge.KnowledgeDocument
	if err := h.db.Where("object_key = ?", objectKey).First(&existing).Error; err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "A document with that name already exists in this knowledge base"})
		return
	}

	if err := h.minio.UploadObject(ctx.Request.Context(), objectKey, file, header.Size,
		header.Header.Get("Content-Type")); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	doc := knowledge.KnowledgeDocument{
		KnowledgeBaseID: base.ID,
		FileName:        fileName,
		OriginalName:    header.Filename,
		FileSize:        header.Size,
		MimeType:        header.Header.Get("Content-Type"),
		BucketName:      h.minio.GetBucketName(),
		ObjectKey:       objectKey,
		UploadedBy:      userID,
	}

	if err := h.db.Create(&doc).Error; err != nil {
		// Cleanup the stored object, the upload never happened
		h.minio.RemoveObject(context.Background(), objectKey)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Document uploaded successfully",
		"data":    doc,
	})
}

// ListDocuments lists the documents of a knowledge base
// @Summary List documents
// @Description Get all documents of a knowledge base, newest first.
// @Tags knowledge
// @Produce json
// @Param id path string true "Knowledge base ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Documents"
// @Failure 403 {object} map[string]string "Not a member"
// @Router /knowledge/bases/{id}/documents [get]
func (h *DocumentHandler) ListDocuments(ctx *gin.Context) {
	baseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid knowledge base ID format"})
		return
	}

	var base knowledge.KnowledgeBase
	if err := h.db.First(&base, baseID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Knowledge base not found"})
		return
	}

	if !h.requirePermission(ctx, base.WorkspaceID, permission.ActionRead) {
		return
	}

	var documents []knowledge.KnowledgeDocument
	if err := h.db.Where("knowledge_base_id = ?", base.ID).
		Order("created_at DESC").Find(&documents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    documents,
	})
}

// DownloadDocument streams a stored document
// @Summary Download a document
// @Description Stream the stored file with its original name and content type.
// @Tags knowledge
// @Produce octet-stream
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {file} binary "Document content"
// @Failure 403 {object} map[string]string "Not a member"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /knowledge/documents/{id}/download [get]
func (h *DocumentHandler) DownloadDocument(ctx *gin.Context) {
	doc, ok := h.loadDocument(ctx)
	if !ok {
		return
	}

	if !h.requirePermission(ctx, doc.KnowledgeBase.WorkspaceID, permission.ActionRead) {
		return
	}

	reader, err := h.minio.DownloadObject(ctx.Request.Context(), doc.ObjectKey)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read stored file"})
		return
	}
	defer reader.Close()

	contentType := doc.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.OriginalName),
	}
	ctx.DataFromReader(http.StatusOK, doc.FileSize, contentType, reader, extraHeaders)
}

// DeleteDocument removes a document record and its stored object
// @Summary Delete a document
// @Description Delete a document and its stored object. Requires knowledgeBase.delete.
// @Tags knowledge
// @Produce json
// @Param id path string true "Document ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Deleted"
// @Failure 403 {object} map[string]string "Missing knowledgeBase.delete"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /knowledge/documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(ctx *gin.Context) {
	doc, ok := h.loadDocument(ctx)
	if !ok {
		return
	}

	if !h.requirePermission(ctx, doc.KnowledgeBase.WorkspaceID, permission.ActionDelete) {
		return
	}

	if err := h.db.Delete(doc).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	if err := h.minio.RemoveObject(context.Background(), doc.ObjectKey); err != nil {
		// Record is gone, the orphaned object is harmless
		fmt.Printf("Warning: failed to remove object %s: %v\n", doc.ObjectKey, err)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Document deleted successfully",
	})
}

// loadDocument reads the :id path param and fetches the document with
// its knowledge base (needed for the workspace permission check).
func (h *DocumentHandler) loadDocument(ctx *gin.Context) (*knowledge.KnowledgeDocument, bool) {
	docID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID format"})
		return nil, false
	}

	var doc knowledge.KnowledgeDocument
	if err := h.db.Preload("KnowledgeBase").First(&doc, docID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return nil, false
	}
	return &doc, true
}
