package models

import "time"

const (
	ClientTypeAdult = "adult"
	ClientTypeMinor = "minor"
)

// Client é o prontuário do paciente. Atendimentos, notas, documentos e
// histórico de alterações pertencem ao cliente e são removidos junto com ele.
//
// AssignedInternName é uma cópia do nome do estagiário no momento do vínculo.
// Não é sincronizada se o usuário for renomeado depois.
type Client struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"size:10;not null;default:'adult'" json:"type"`

	Name      string `gorm:"size:100;not null" json:"name"`
	Email     string `gorm:"size:100" json:"email"`
	Phone     string `gorm:"size:20" json:"phone"`
	BirthDate string `gorm:"size:10" json:"birth_date"`
	Gender    string `gorm:"size:20" json:"gender"`
	CPF       string `gorm:"size:14" json:"cpf"`
	RG        string `gorm:"size:20" json:"rg"`

	// Responsável (apenas para type=minor)
	GuardianName  string `gorm:"size:100" json:"guardian_name"`
	GuardianCPF   string `gorm:"size:14" json:"guardian_cpf"`
	GuardianPhone string `gorm:"size:20" json:"guardian_phone"`

	CEP          string `gorm:"size:9" json:"cep"`
	Street       string `gorm:"size:150" json:"street"`
	Number       string `gorm:"size:20" json:"number"`
	Neighborhood string `gorm:"size:100" json:"neighborhood"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:2" json:"state"`

	Observations string `gorm:"type:text" json:"observations"`
	Active       bool   `gorm:"not null;default:true" json:"active"`

	AssignedInternID   *uint  `json:"assigned_intern_id"`
	AssignedInternName string `gorm:"size:100" json:"assigned_intern_name"`

	Appointments  []Appointment    `gorm:"constraint:OnDelete:CASCADE;" json:"appointments,omitempty"`
	Notes         []ClientNote     `gorm:"constraint:OnDelete:CASCADE;" json:"notes,omitempty"`
	Documents     []ClientDocument `gorm:"constraint:OnDelete:CASCADE;" json:"documents,omitempty"`
	ChangeHistory []ChangeEntry    `gorm:"constraint:OnDelete:CASCADE;" json:"change_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClientNote struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Author   string `gorm:"size:100" json:"author"`

	CreatedAt time.Time `json:"created_at"`
}

type ClientDocument struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ClientID   uint   `gorm:"not null;index" json:"client_id"`
	FileName   string `gorm:"size:255;not null" json:"file_name"`
	StorageKey string `gorm:"size:255" json:"storage_key"`
	URL        string `gorm:"size:500" json:"url"`
	UploadedBy string `gorm:"size:100" json:"uploaded_by"`

	CreatedAt time.Time `json:"created_at"`
}
