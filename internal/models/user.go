package models

import "time"

// Papéis de usuário do sistema. O papel é imutável após a criação.
const (
	RoleCoordinator = "coordinator"
	RoleStaff       = "staff"
	RoleIntern      = "intern"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username     string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Role         string `gorm:"size:20;not null;default:'intern'" json:"role"`

	CPF     string `gorm:"size:14" json:"cpf"`
	Phone   string `gorm:"size:20" json:"phone"`
	Email   string `gorm:"size:100" json:"email"`
	Address string `gorm:"size:255" json:"address"`

	// Campos de estágio (apenas para role=intern)
	Institution      string `gorm:"size:100" json:"institution"`
	GraduationPeriod string `gorm:"size:50" json:"graduation_period"`
	Education        string `gorm:"size:100" json:"education"`
	Discipline       string `gorm:"size:100" json:"discipline"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsIntern() bool      { return u.Role == RoleIntern }
func (u *User) IsStaff() bool       { return u.Role == RoleStaff }
func (u *User) IsCoordinator() bool { return u.Role == RoleCoordinator }
