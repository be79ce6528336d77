package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httpresp"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/storage"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/assignment"
)

// ======================================================
// HANDLER
// ======================================================

type ClientHandler struct {
	db       *gorm.DB
	tracker  *assignment.Tracker
	uploader *storage.Uploader
	audit    *audit.Dispatcher
}

func NewClientHandler(
	db *gorm.DB,
	tracker *assignment.Tracker,
	uploader *storage.Uploader,
	dispatcher *audit.Dispatcher,
) *ClientHandler {
	return &ClientHandler{
		db:       db,
		tracker:  tracker,
		uploader: uploader,
		audit:    dispatcher,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ClientRequest struct {
	Type      string `json:"type"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
	Gender    string `json:"gender"`
	CPF       string `json:"cpf"`
	RG        string `json:"rg"`

	GuardianName  string `json:"guardian_name"`
	GuardianCPF   string `json:"guardian_cpf"`
	GuardianPhone string `json:"guardian_phone"`

	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`

	Observations string `json:"observations"`
}

type ClientNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

type ClientDocumentRequest struct {
	FileName      string `json:"file_name" binding:"required"`
	ContentBase64 string `json:"content_base64" binding:"required"`
	ContentType   string `json:"content_type"`
}

type AssignInternRequest struct {
	InternID uint `json:"intern_id" binding:"required"`
}

// ======================================================
// LIST / GET
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Model(&models.Client{})

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR cpf LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.Order("name ASC").Find(&clients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_clients", "Falha ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Notes").
		Preload("Documents").
		First(&client, id).Error; err != nil {

		httperr.Handle(c, notFound(err, id))
		return
	}

	httpresp.OK(c, client)
}

func notFound(err error, id uint) error {
	if err == gorm.ErrRecordNotFound {
		return httperr.NotFoundErr("cliente", id)
	}
	return err
}

// ======================================================
// CREATE / UPDATE
// ======================================================

// Rótulos do histórico de alterações exibidos ao usuário.
var trackedClientFields = []struct {
	label string
	get   func(*models.Client) string
}{
	{"Nome", func(cl *models.Client) string { return cl.Name }},
	{"E-mail", func(cl *models.Client) string { return cl.Email }},
	{"Telefone", func(cl *models.Client) string { return cl.Phone }},
	{"Data de Nascimento", func(cl *models.Client) string { return cl.BirthDate }},
	{"CPF", func(cl *models.Client) string { return cl.CPF }},
	{"Observações", func(cl *models.Client) string { return cl.Observations }},
}

func (h *ClientHandler) Create(c *gin.Context) {
	acting := middleware.ActingUser(c)

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	clientType := req.Type
	if clientType == "" {
		clientType = models.ClientTypeAdult
	}
	if clientType != models.ClientTypeAdult && clientType != models.ClientTypeMinor {
		httperr.Handle(c, httperr.Validation("type", "tipo de cliente inválido"))
		return
	}
	if clientType == models.ClientTypeMinor && strings.TrimSpace(req.GuardianName) == "" {
		httperr.Handle(c, httperr.Validation("guardian_name", "responsável é obrigatório para menores"))
		return
	}

	client := models.Client{
		Type:      clientType,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
		CPF:       req.CPF,
		RG:        req.RG,

		GuardianName:  req.GuardianName,
		GuardianCPF:   req.GuardianCPF,
		GuardianPhone: req.GuardianPhone,

		CEP:          req.CEP,
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,

		Observations: req.Observations,
		Active:       true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Falha ao criar cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "client_created",
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.Created(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).First(&client, id).Error; err != nil {
		httperr.Handle(c, notFound(err, id))
		return
	}

	before := client

	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.BirthDate = req.BirthDate
	client.Gender = req.Gender
	client.CPF = req.CPF
	client.RG = req.RG
	client.GuardianName = req.GuardianName
	client.GuardianCPF = req.GuardianCPF
	client.GuardianPhone = req.GuardianPhone
	client.CEP = req.CEP
	client.Street = req.Street
	client.Number = req.Number
	client.Neighborhood = req.Neighborhood
	client.City = req.City
	client.State = req.State
	client.Observations = req.Observations

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Appointments", "Notes", "Documents", "ChangeHistory").
			Save(&client).Error; err != nil {
			return err
		}

		// Uma entrada de histórico por campo alterado.
		for _, f := range trackedClientFields {
			oldVal := f.get(&before)
			newVal := f.get(&client)
			if oldVal == newVal {
				continue
			}
			entry := models.ChangeEntry{
				ClientID:  client.ID,
				ChangedBy: acting.Name,
				Field:     f.label,
				OldValue:  oldVal,
				NewValue:  newVal,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_client", "Falha ao atualizar cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "client_updated",
		Entity:   "client",
		EntityID: &client.ID,
	})

	httpresp.OK(c, client)
}

// ======================================================
// DELETE (coordenador; leva junto todo o prontuário)
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).First(&client, id).Error; err != nil {
		httperr.Handle(c, notFound(err, id))
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ?", id).Delete(&models.ClientNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.ClientDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.ChangeEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Client{}, id).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_client", "Falha ao excluir cliente.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "client_deleted",
		Entity:   "client",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}

// ======================================================
// HISTORY
// ======================================================

func (h *ClientHandler) History(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var entries []models.ChangeEntry
	if err := h.db.WithContext(c.Request.Context()).
		Where("client_id = ?", id).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {

		httperr.Internal(c, "failed_to_list_history", "Falha ao listar histórico.")
		return
	}

	httpresp.List(c, entries)
}

// ======================================================
// NOTES
// ======================================================

func (h *ClientHandler) AddNote(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req ClientNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	note := models.ClientNote{
		ClientID: id,
		Text:     req.Text,
		Author:   acting.Name,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&note).Error; err != nil {
		httperr.Internal(c, "failed_to_create_note", "Falha ao criar anotação.")
		return
	}

	httpresp.Created(c, note)
}

func (h *ClientHandler) DeleteNote(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	noteID, err := parseUintParam(c, "noteId")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Where("client_id = ?", id).
		Delete(&models.ClientNote{}, noteID).Error; err != nil {

		httperr.Internal(c, "failed_to_delete_note", "Falha ao excluir anotação.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// DOCUMENTS
// ======================================================

func (h *ClientHandler) AddDocument(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req ClientDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ContentBase64)
	if err != nil {
		httperr.BadRequest(c, "invalid_document", "Documento inválido.")
		return
	}

	key, url, err := h.uploader.Upload(
		c.Request.Context(),
		"documentos",
		req.FileName,
		req.ContentType,
		data,
	)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Falha ao enviar documento.")
		return
	}

	doc := models.ClientDocument{
		ClientID:   id,
		FileName:   req.FileName,
		StorageKey: key,
		URL:        url,
		UploadedBy: acting.Name,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&doc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_document", "Falha ao registrar documento.")
		return
	}

	httpresp.Created(c, doc)
}

func (h *ClientHandler) DeleteDocument(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	docID, err := parseUintParam(c, "documentId")
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var doc models.ClientDocument
	if err := h.db.WithContext(c.Request.Context()).
		Where("client_id = ?", id).
		First(&doc, docID).Error; err != nil {

		httperr.Handle(c, notFound(err, uint(docID)))
		return
	}

	if doc.StorageKey != "" {
		// Falha ao remover do bucket não impede a exclusão do registro.
		_ = h.uploader.Delete(c.Request.Context(), doc.StorageKey)
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&doc).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_document", "Falha ao excluir documento.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// INTERN ASSIGNMENT
// ======================================================

func (h *ClientHandler) AssignIntern(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req AssignInternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	client, err := h.tracker.Assign(c.Request.Context(), id, req.InternID, acting.Name, &acting.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, client)
}

func (h *ClientHandler) UnassignIntern(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	client, err := h.tracker.Unassign(c.Request.Context(), id, acting.Name, &acting.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, client)
}
