package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httpresp"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
)

type FinancialNoteHandler struct {
	db *gorm.DB
}

func NewFinancialNoteHandler(db *gorm.DB) *FinancialNoteHandler {
	return &FinancialNoteHandler{db: db}
}

type FinancialNoteRequest struct {
	Date        string          `json:"date" binding:"required"`
	Kind        string          `json:"kind" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Value       decimal.Decimal `json:"value" binding:"required"`
}

func (h *FinancialNoteHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.FinancialNote{})

	if kind := c.Query("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}

	var notes []models.FinancialNote
	if err := q.Order("date DESC").Find(&notes).Error; err != nil {
		httperr.Internal(c, "failed_to_list_notes", "Falha ao listar lançamentos.")
		return
	}

	httpresp.List(c, notes)
}

func (h *FinancialNoteHandler) Create(c *gin.Context) {
	acting := middleware.ActingUser(c)

	var req FinancialNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Kind != models.FinancialNoteRevenue && req.Kind != models.FinancialNoteExpense {
		httperr.Handle(c, httperr.Validation("kind", "tipo de lançamento inválido"))
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		httperr.Handle(c, httperr.Validation("date", "data inválida, use AAAA-MM-DD"))
		return
	}
	if !req.Value.IsPositive() {
		httperr.Handle(c, httperr.Validation("value", "valor deve ser positivo"))
		return
	}

	note := models.FinancialNote{
		Date:        req.Date,
		Kind:        req.Kind,
		Description: req.Description,
		Value:       req.Value,
		CreatedBy:   acting.Name,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&note).Error; err != nil {
		httperr.Internal(c, "failed_to_create_note", "Falha ao criar lançamento.")
		return
	}

	httpresp.Created(c, note)
}

func (h *FinancialNoteHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.FinancialNote{}, id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_note", "Falha ao excluir lançamento.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.Handle(c, httperr.NotFoundErr("lançamento", id))
		return
	}

	c.Status(http.StatusNoContent)
}
