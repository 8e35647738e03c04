// internals/features/schools/students/model/student_model.go
package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

/*
Enrollment status (fixed set):
- "enrolled"
- "pending"
- "under_review"
*/
type StudentStatus string

const (
	StudentStatusEnrolled    StudentStatus = "enrolled"
	StudentStatusPending     StudentStatus = "pending"
	StudentStatusUnderReview StudentStatus = "under_review"
)

var statusLabels = map[StudentStatus]string{
	StudentStatusEnrolled:    "Matriculado",
	StudentStatusPending:     "Pendente",
	StudentStatusUnderReview: "Em Análise",
}

func (s StudentStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s StudentStatus) Label() string { return statusLabels[s] }

// ParseStudentStatus accepts the enum values and their Portuguese labels.
func ParseStudentStatus(v string) (StudentStatus, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "enrolled", "matriculado":
		return StudentStatusEnrolled, nil
	case "pending", "pendente":
		return StudentStatusPending, nil
	case "under_review", "under-review", "em análise", "em analise":
		return StudentStatusUnderReview, nil
	}
	return "", fmt.Errorf("unknown student status %q", v)
}

// Always lower-case on scan/save
func (s *StudentStatus) Scan(value any) error {
	switch v := value.(type) {
	case string:
		*s = StudentStatus(strings.ToLower(strings.TrimSpace(v)))
	case []byte:
		*s = StudentStatus(strings.ToLower(strings.TrimSpace(string(v))))
	case nil:
		*s = ""
	default:
		return fmt.Errorf("cannot scan %T into StudentStatus", value)
	}
	return nil
}

func (s StudentStatus) Value() (driver.Value, error) {
	return strings.ToLower(strings.TrimSpace(string(s))), nil
}

type StudentModel struct {
	StudentID string `gorm:"type:varchar(64);primaryKey;column:student_id" json:"student_id"`

	StudentName      string  `gorm:"type:varchar(200);not null;column:student_name" json:"student_name"`
	StudentBirthDate string  `gorm:"type:varchar(10);column:student_birth_date" json:"student_birth_date"`
	StudentCPF       *string `gorm:"type:varchar(20);column:student_cpf" json:"student_cpf,omitempty"`

	StudentGuardianName *string `gorm:"type:varchar(200);column:student_guardian_name" json:"student_guardian_name,omitempty"`
	StudentGuardianCPF  *string `gorm:"type:varchar(20);column:student_guardian_cpf" json:"student_guardian_cpf,omitempty"`

	// School name, not an id: roster membership is decided by normalized name equality
	StudentSchool string `gorm:"type:varchar(200);index;column:student_school" json:"student_school"`

	StudentStatus    StudentStatus `gorm:"type:varchar(20);not null;default:'pending';column:student_status" json:"student_status"`
	StudentClassName string        `gorm:"type:varchar(60);column:student_class_name" json:"student_class_name"`
	StudentShift     string        `gorm:"type:varchar(30);column:student_shift" json:"student_shift"`

	StudentTransportRequest bool `gorm:"not null;default:false;column:student_transport_request" json:"student_transport_request"`
	StudentSpecialNeeds     bool `gorm:"not null;default:false;column:student_special_needs" json:"student_special_needs"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) GuardianName() string {
	if m.StudentGuardianName == nil {
		return ""
	}
	return *m.StudentGuardianName
}

func (m *StudentModel) CPF() string {
	if m.StudentCPF == nil {
		return ""
	}
	return *m.StudentCPF
}

func (m *StudentModel) GuardianCPF() string {
	if m.StudentGuardianCPF == nil {
		return ""
	}
	return *m.StudentGuardianCPF
}

// ShiftLabel renders "matutino"/"vespertino" as "Manhã"/"Tarde"; other values pass through.
func ShiftLabel(shift string) string {
	s := strings.ToLower(strings.TrimSpace(shift))
	switch {
	case s == "":
		return "-"
	case strings.Contains(s, "matutino"):
		return "Manhã"
	case strings.Contains(s, "vespertino"):
		return "Tarde"
	}
	return shift
}
