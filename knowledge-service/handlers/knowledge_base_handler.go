package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"tenanthub-backend/knowledge-service/middleware"
	"tenanthub-backend/knowledge-service/services"
	"tenanthub-backend/shared/database/models/knowledge"
	"tenanthub-backend/shared/utils/permission"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KnowledgeBaseHandler struct {
	db    *gorm.DB
	minio *services.MinIOService
}

func NewKnowledgeBaseHandler(db *gorm.DB, minio *services.MinIOService) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{db: db, minio: minio}
}

// CreateKnowledgeBaseRequest represents request body for creating a knowledge base
type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name" binding:"required" example:"Product Docs"`
	Description string `json:"description"`
}

// UpdateKnowledgeBaseRequest represents request body for updating a knowledge base
type UpdateKnowledgeBaseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// requirePermission resolves the caller's workspace role and checks the
// knowledgeBase action. Writes the error response itself and reports
// whether the caller may proceed.
func (h *KnowledgeBaseHandler) requirePermission(ctx *gin.Context, workspaceID uuid.UUID, action permission.Action) bool {
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

// CreateKnowledgeBase creates a knowledge base in a workspace
// @Summary Create a knowledge base
// @Description Create a document collection in a workspace. Requires knowledgeBase.create (owner or admin).
// @Tags knowledge
// @Accept json
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Param base body CreateKnowledgeBaseRequest true "Knowledge base information"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created knowledge base"
// @Failure 403 {object} map[string]string "Missing knowledgeBase.create"
// @Router /knowledge/workspaces/{id}/bases [post]
func (h *KnowledgeBaseHandler) CreateKnowledgeBase(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
		return
	}

	var req CreateKnowledgeBaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.requirePermission(ctx, workspaceID, permission.ActionCreate) {
		return
	}
	userID, _ := middleware.UserID(ctx)

	base := knowledge.KnowledgeBase{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := h.db.Create(&base).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create knowledge base"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Knowledge base created successfully",
		"data":    base,
	})
}

// ListKnowledgeBases lists a workspace's knowledge bases
// @Summary List knowledge bases
// @Description Get all knowledge bases of a workspace. Any member can read.
// @Tags knowledge
// @Produce json
// @Param id path string true "Workspace ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Knowledge bases"
// @Failure 403 {object} map[string]string "Not a member"
// @Router /knowledge/workspaces/{id}/bases [get]
func (h *KnowledgeBaseHandler) ListKnowledgeBases(ctx *gin.Context) {
	workspaceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID format"})
		return
	}

	if !h.requirePermission(ctx, workspaceID, permission.ActionRead) {
		return
	}

	var bases []knowledge.KnowledgeBase
	if err := h.db.Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").Find(&bases).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list knowledge bases"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bases,
	})
}

// GetKnowledgeBase retrieves a knowledge base
// @Summary Get knowledge base by ID
// @Description Get a knowledge base with its document count.
// @Tags knowledge
// @Produce json
// @Param id path string true "Knowledge base ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Knowledge base"
// @Failure 404 {object} map[string]string "Knowledge base not found"
// @Router /knowledge/bases/{id} [get]
func (h *KnowledgeBaseHandler) GetKnowledgeBase(ctx *gin.Context) {
	base, ok := h.loadBase(ctx)
	if !ok {
		return
	}
	if !h.requirePermission(ctx, base.WorkspaceID, permission.ActionRead) {
		return
	}

	var documentCount int64
	h.db.Model(&knowledge.KnowledgeDocument{}).
		Where("knowledge_base_id = ?", base.ID).
		Count(&documentCount)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"knowledge_base": base,
			"document_count": documentCount,
		},
	})
}

// UpdateKnowledgeBase updates a knowledge base
// @Summary Update a knowledge base
// @Description Update name or description. Requires knowledgeBase.update (owner or admin).
// @Tags knowledge
// @Accept json
// @Produce json
// @Param id path string true "Knowledge base ID" format(uuid)
// @Param base body UpdateKnowledgeBaseRequest true "Updated fields"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated knowledge base"
// @Failure 403 {object} map[string]string "Missing knowledgeBase.update"
// @Router /knowledge/bases/{id} [put]
func (h *KnowledgeBaseHandler) UpdateKnowledgeBase(ctx *gin.Context) {
	base, ok := h.loadBase(ctx)
	if !ok {
		return
	}
	if !h.requirePermission(ctx, base.WorkspaceID, permission.ActionUpdate) {
		return
	}

	var req UpdateKnowledgeBaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil && *req.Name != "" {
		base.Name = *req.Name
	}
	if req.Description != nil {
		base.Description = *req.Description
	}

	if err := h.db.Save(base).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update knowledge base"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Knowledge base updated successfully",
		"data":    base,
	})
}

// DeleteKnowledgeBase deletes a knowledge base and its stored objects
// @Summary Delete a knowledge base
// @Description Delete a knowledge base, its document records and every stored object. Requires knowledgeBase.delete (owner or admin).
// @Tags knowledge
// @Produce json
// @Param id path string true "Knowledge base ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]string "Deleted"
// @Failure 403 {object} map[string]string "Missing knowledgeBase.delete"
// @Router /knowledge/bases/{id} [delete]
func (h *KnowledgeBaseHandler) DeleteKnowledgeBase(ctx *gin.Context) {
	base, ok := h.loadBase(ctx)
	if !ok {
		return
	}
	if !h.requirePermission(ctx, base.WorkspaceID, permission.ActionDelete) {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("knowledge_base_id = ?", base.ID).
			Delete(&knowledge.KnowledgeDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(base).Error
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete knowledge base"})
		return
	}

	// Stored objects go after the records. A failed prefix delete leaves
	// orphans in the bucket, never dangling database rows.
	prefix := fmt.Sprintf("%s/%s/", base.WorkspaceID, base.ID)
	if err := h.minio.RemovePrefix(context.Background(), prefix); err != nil {
		log.Printf("Warning: failed to remove objects under %s: %v", prefix, err)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Knowledge base deleted successfully",
	})
}

// loadBase reads the :id path param and fetches the knowledge base.
func (h *KnowledgeBaseHandler) loadBase(ctx *gin.Context) (*knowledge.KnowledgeBase, bool) {
	baseID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid knowledge base ID format"})
		return nil, false
	}

	var base knowledge.KnowledgeBase
	if err := h.db.First(&base, baseID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Knowledge base not found"})
		return nil, false
	}
	return &base, true
}
