package handlers

import (
	"encoding/base64"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httpresp"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/storage"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/timezone"
	scheduleuc "github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	create   *scheduleuc.CreateSchedule
	edit     *scheduleuc.EditSchedule
	reassign *scheduleuc.ReassignSchedule
	cancel   *scheduleuc.CancelSchedule
	confirm  *scheduleuc.ConfirmSchedule
	list     *scheduleuc.ListSchedules
	uploader *storage.Uploader
}

func NewScheduleHandler(
	create *scheduleuc.CreateSchedule,
	edit *scheduleuc.EditSchedule,
	reassign *scheduleuc.ReassignSchedule,
	cancel *scheduleuc.CancelSchedule,
	confirm *scheduleuc.ConfirmSchedule,
	list *scheduleuc.ListSchedules,
	uploader *storage.Uploader,
) *ScheduleHandler {
	return &ScheduleHandler{
		create:   create,
		edit:     edit,
		reassign: reassign,
		cancel:   cancel,
		confirm:  confirm,
		list:     list,
		uploader: uploader,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateScheduleRequest struct {
	ClientID       uint   `json:"client_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	ServiceType    string `json:"service_type" binding:"required"`
	Observations   string `json:"observations"`
	AssigneeUserID *uint  `json:"assignee_user_id"`
}

type EditScheduleRequest struct {
	ClientID     uint   `json:"client_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	ServiceType  string `json:"service_type" binding:"required"`
	Observations string `json:"observations"`
}

type ReassignScheduleRequest struct {
	AssigneeUserID uint `json:"assignee_user_id" binding:"required"`
}

type CancelScheduleRequest struct {
	Reason string `json:"reason"`

	// Comprovante opcional enviado como base64.
	ImageBase64   string `json:"image_base64"`
	ImageFileName string `json:"image_file_name"`
	ImageType     string `json:"image_type"`
}

type MaterialLineRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type AttachmentRequest struct {
	FileName      string `json:"file_name" binding:"required"`
	ContentBase64 string `json:"content_base64" binding:"required"`
	ContentType   string `json:"content_type"`
}

type ConfirmScheduleRequest struct {
	ProfessionalName string                `json:"professional_name"`
	Observations     string                `json:"observations"`
	Value            decimal.Decimal       `json:"value"`
	DurationHours    decimal.Decimal       `json:"duration_hours"`
	Materials        []MaterialLineRequest `json:"materials"`
	Attachments      []AttachmentRequest   `json:"attachments"`
}

// ======================================================
// HELPERS
// ======================================================

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}

// ======================================================
// CREATE
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	acting := middleware.ActingUser(c)

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	s, err := h.create.Execute(c.Request.Context(), acting, scheduleuc.CreateScheduleInput{
		ClientID:       req.ClientID,
		Date:           req.Date,
		Time:           req.Time,
		ServiceType:    req.ServiceType,
		Observations:   req.Observations,
		AssigneeUserID: req.AssigneeUserID,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.Created(c, s)
}

// ======================================================
// LIST (por dia e por mês)
// ======================================================

func (h *ScheduleHandler) ListByDate(c *gin.Context) {
	acting := middleware.ActingUser(c)

	date := c.Query("date")
	if date == "" {
		date = timezone.Now().Format("2006-01-02")
	}

	schedules, err := h.list.ByDate(c.Request.Context(), acting, date)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, schedules)
}

func (h *ScheduleHandler) ListByMonth(c *gin.Context) {
	acting := middleware.ActingUser(c)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	schedules, err := h.list.ByMonth(c.Request.Context(), acting, year, month)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.List(c, schedules)
}

// ======================================================
// EDIT
// ======================================================

func (h *ScheduleHandler) Update(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req EditScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	s, err := h.edit.Execute(c.Request.Context(), acting, id, scheduleuc.EditScheduleInput{
		ClientID:     req.ClientID,
		Date:         req.Date,
		Time:         req.Time,
		ServiceType:  req.ServiceType,
		Observations: req.Observations,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, s)
}

// ======================================================
// REASSIGN
// ======================================================

func (h *ScheduleHandler) Reassign(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req ReassignScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	s, err := h.reassign.Execute(c.Request.Context(), acting, id, req.AssigneeUserID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, s)
}

// ======================================================
// CANCEL
// ======================================================

func (h *ScheduleHandler) Cancel(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req CancelScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	imageURL := ""
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			httperr.BadRequest(c, "invalid_image", "Imagem inválida.")
			return
		}
		_, url, err := h.uploader.Upload(
			c.Request.Context(),
			"cancelamentos",
			req.ImageFileName,
			req.ImageType,
			data,
		)
		if err != nil {
			httperr.Internal(c, "upload_failed", "Falha ao enviar o comprovante.")
			return
		}
		imageURL = url
	}

	s, err := h.cancel.Execute(c.Request.Context(), acting, id, scheduleuc.CancelScheduleInput{
		Reason:   req.Reason,
		ImageURL: imageURL,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, s)
}

// ======================================================
// CONFIRM
// ======================================================

func (h *ScheduleHandler) Confirm(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req ConfirmScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	// Anexos sobem antes da transação; se a confirmação falhar depois,
	// sobra no máximo um objeto órfão no bucket.
	attachments := make([]scheduleuc.AttachmentInput, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		data, err := base64.StdEncoding.DecodeString(a.ContentBase64)
		if err != nil {
			httperr.BadRequest(c, "invalid_attachment", "Anexo inválido.")
			return
		}
		key, url, err := h.uploader.Upload(
			c.Request.Context(),
			"atendimentos",
			a.FileName,
			a.ContentType,
			data,
		)
		if err != nil {
			httperr.Internal(c, "upload_failed", "Falha ao enviar anexo.")
			return
		}
		attachments = append(attachments, scheduleuc.AttachmentInput{
			FileName:   a.FileName,
			StorageKey: key,
			URL:        url,
		})
	}

	materials := make([]scheduleuc.MaterialLine, 0, len(req.Materials))
	for _, m := range req.Materials {
		materials = append(materials, scheduleuc.MaterialLine{
			ItemID:   m.ItemID,
			Quantity: m.Quantity,
		})
	}

	appointment, err := h.confirm.Execute(c.Request.Context(), acting, id, scheduleuc.ConfirmScheduleInput{
		ProfessionalName: req.ProfessionalName,
		Observations:     req.Observations,
		Value:            req.Value,
		DurationHours:    req.DurationHours,
		Materials:        materials,
		Attachments:      attachments,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.Created(c, appointment)
}
