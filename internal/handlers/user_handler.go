package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httperr"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/httpresp"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: dispatcher}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`

	CPF     string `json:"cpf"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`

	Institution      string `json:"institution"`
	GraduationPeriod string `json:"graduation_period"`
	Education        string `json:"education"`
	Discipline       string `json:"discipline"`
}

type UpdateUserRequest struct {
	Name string `json:"name" binding:"required"`

	CPF     string `json:"cpf"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`

	Institution      string `json:"institution"`
	GraduationPeriod string `json:"graduation_period"`
	Education        string `json:"education"`
	Discipline       string `json:"discipline"`

	Password string `json:"password"`
}

func validRole(role string) bool {
	switch role {
	case models.RoleCoordinator, models.RoleStaff, models.RoleIntern:
		return true
	}
	return false
}

// ======================================================
// LIST / GET
// ======================================================

func (h *UserHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})

	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("name ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Falha ao listar usuários.")
		return
	}

	httpresp.List(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Handle(c, httperr.NotFoundErr("usuário", id))
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	httpresp.OK(c, user)
}

// ======================================================
// CREATE
// ======================================================

func (h *UserHandler) Create(c *gin.Context) {
	acting := middleware.ActingUser(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if !validRole(req.Role) {
		httperr.Handle(c, httperr.Validation("role", "papel inválido"))
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))

	var count int64
	h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("username = ?", username).
		Count(&count)
	if count > 0 {
		httperr.Handle(c, httperr.Conflict("nome de usuário já está em uso"))
		return
	}

	if req.Email != "" && !validators.IsEmailDomainValid(req.Email) {
		httperr.Handle(c, httperr.Validation("email", "o domínio do e-mail não parece ser válido"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro interno.")
		return
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Name:         req.Name,
		Role:         req.Role,

		CPF:     req.CPF,
		Phone:   req.Phone,
		Email:   validators.NormalizeEmail(req.Email),
		Address: req.Address,

		Institution:      req.Institution,
		GraduationPeriod: req.GraduationPeriod,
		Education:        req.Education,
		Discipline:       req.Discipline,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Falha ao criar usuário.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "user_created",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: gin.H{"role": user.Role},
	})

	httpresp.Created(c, user)
}

// ======================================================
// UPDATE (o papel nunca muda)
// ======================================================

func (h *UserHandler) Update(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Handle(c, httperr.NotFoundErr("usuário", id))
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	user.Name = req.Name
	user.CPF = req.CPF
	user.Phone = req.Phone
	user.Email = validators.NormalizeEmail(req.Email)
	user.Address = req.Address
	user.Institution = req.Institution
	user.GraduationPeriod = req.GraduationPeriod
	user.Education = req.Education
	user.Discipline = req.Discipline

	if req.Password != "" {
		if len(req.Password) < 6 {
			httperr.Handle(c, httperr.Validation("password", "senha deve ter ao menos 6 caracteres"))
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Erro interno.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Falha ao atualizar usuário.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "user_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, user)
}

// ======================================================
// DELETE
// ======================================================

// Delete remove o usuário. Clientes vinculados ao estagiário excluído são
// desvinculados, com entrada de histórico.
func (h *UserHandler) Delete(c *gin.Context) {
	acting := middleware.ActingUser(c)

	id, ok := paramID(c)
	if !ok {
		return
	}

	if id == acting.ID {
		httperr.Handle(c, httperr.Validation("id", "não é possível excluir o próprio usuário"))
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.Handle(c, httperr.NotFoundErr("usuário", id))
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if user.IsIntern() {
			var clients []models.Client
			if err := tx.Where("assigned_intern_id = ?", user.ID).Find(&clients).Error; err != nil {
				return err
			}
			for i := range clients {
				cl := &clients[i]
				entry := models.ChangeEntry{
					ClientID:  cl.ID,
					ChangedBy: acting.Name,
					Field:     models.ChangeFieldAssignedIntern,
					OldValue:  cl.AssignedInternName,
					NewValue:  models.NoInternValue,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}

				cl.AssignedInternID = nil
				cl.AssignedInternName = ""
				if err := tx.Omit("Appointments", "Notes", "Documents", "ChangeHistory").
					Save(cl).Error; err != nil {
					return err
				}
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Falha ao excluir usuário.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &acting.ID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &id,
	})

	c.Status(http.StatusNoContent)
}
