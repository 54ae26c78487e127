package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"infosight-worker/dto"
	"infosight-worker/entities"
	"infosight-worker/pkg/transcribe"
	"infosight-worker/repository"
	"infosight-worker/service"
)

type httpHandler struct {
	repo              repository.SubmissionRepository
	submissionService service.Service
	reprocessService  service.ReprocessService
	exporter          service.Exporter
	baseCtx           context.Context
}

func addRoutes(r *gin.Engine, baseCtx context.Context, h *httpHandler) {
	h.baseCtx = baseCtx

	v1 := r.Group("/api/v1")
	v1.POST("/submissions/process", h.processSubmission)
	v1.POST("/submissions/reprocess", h.reprocessSubmissions)

	v1.POST("/kpi-definitions", h.createKPIDefinition)
	v1.GET("/kpi-definitions", h.listKPIDefinitions)
	v1.GET("/kpi-definitions/export", h.exportKPIDefinitions)
	v1.GET("/kpi-definitions/:id", h.getKPIDefinition)
	v1.PUT("/kpi-definitions/:id", h.updateKPIDefinition)
	v1.DELETE("/kpi-definitions/:id", h.deactivateKPIDefinition)
}

// requestContext carries the request's cancellation with the server logger.
func (h *httpHandler) requestContext(c *gin.Context) context.Context {
	return zerolog.Ctx(h.baseCtx).WithContext(c.Request.Context())
}

func (h *httpHandler) processSubmission(c *gin.Context) {
	var req dto.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "submissionId is required"})
		return
	}

	result, err := h.submissionService.Process(h.requestContext(c), dto.ProcessMessage{SubmissionId: req.SubmissionId})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		case errors.Is(err, transcribe.ErrTimeout):
			c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrSubmissionClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMissingVideo):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ProcessResponse{
		Success:               true,
		Message:               "submission processed",
		KpisExtracted:         result.KpisExtracted,
		VideoProcessed:        true,
		TranscriptLength:      result.TranscriptLength,
		DocumentProcessed:     result.DocumentProcessed,
		DocumentContentLength: result.DocumentTextLength,
	})
}

func (h *httpHandler) reprocessSubmissions(c *gin.Context) {
	summary, err := h.reprocessService.ReprocessAll(h.requestContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *httpHandler) createKPIDefinition(c *gin.Context) {
	var req dto.KPIDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	definition := &entities.KPIDefinition{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		Active:      true,
	}
	if req.Active != nil {
		definition.Active = *req.Active
	}

	if err := h.repo.CreateKPIDefinition(h.requestContext(c), definition); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, definition)
}

func (h *httpHandler) listKPIDefinitions(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	definitions, err := h.repo.ListKPIDefinitions(h.requestContext(c), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, definitions)
}

func (h *httpHandler) getKPIDefinition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	definition, err := h.repo.FindKPIDefinitionById(h.requestContext(c), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "kpi definition not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, definition)
}

func (h *httpHandler) updateKPIDefinition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req dto.KPIDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := h.requestContext(c)
	definition, err := h.repo.FindKPIDefinitionById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "kpi definition not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	definition.Name = req.Name
	definition.Description = req.Description
	definition.Category = req.Category
	definition.TargetValue = req.TargetValue
	definition.Unit = req.Unit
	if req.Active != nil {
		definition.Active = *req.Active
	}

	if err := h.repo.UpdateKPIDefinition(ctx, definition); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, definition)
}

func (h *httpHandler) deactivateKPIDefinition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.repo.DeactivateKPIDefinition(h.requestContext(c), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "kpi definition not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) exportKPIDefinitions(c *gin.Context) {
	payload, err := h.exporter.ExportKPIWorkbook(h.requestContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("kpi-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
}
