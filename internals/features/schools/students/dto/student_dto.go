package dto

import (
	"strings"

	"educa_backend/internals/features/schools/students/model"
	"educa_backend/internals/helpers/fuzzy"
)

/* =========================================================
   Request / Response
========================================================= */

type StudentRequest struct {
	StudentID               string  `json:"student_id,omitempty" validate:"omitempty,max=64"`
	StudentName             string  `json:"student_name" validate:"required,max=200"`
	StudentBirthDate        string  `json:"student_birth_date" validate:"omitempty,datetime=2006-01-02"`
	StudentCPF              *string `json:"student_cpf,omitempty" validate:"omitempty,max=20"`
	StudentGuardianName     *string `json:"student_guardian_name,omitempty" validate:"omitempty,max=200"`
	StudentGuardianCPF      *string `json:"student_guardian_cpf,omitempty" validate:"omitempty,max=20"`
	StudentSchool           string  `json:"student_school" validate:"max=200"`
	StudentStatus           string  `json:"student_status"` // enum value or Portuguese label
	StudentClassName        string  `json:"student_class_name" validate:"max=60"`
	StudentShift            string  `json:"student_shift" validate:"max=30"`
	StudentTransportRequest bool    `json:"student_transport_request"`
	StudentSpecialNeeds     bool    `json:"student_special_needs"`
}

type StudentUpdateRequest struct {
	StudentName             *string `json:"student_name" validate:"omitempty,min=1,max=200"`
	StudentBirthDate        *string `json:"student_birth_date" validate:"omitempty,datetime=2006-01-02"`
	StudentCPF              *string `json:"student_cpf" validate:"omitempty,max=20"`
	StudentGuardianName     *string `json:"student_guardian_name" validate:"omitempty,max=200"`
	StudentGuardianCPF      *string `json:"student_guardian_cpf" validate:"omitempty,max=20"`
	StudentSchool           *string `json:"student_school" validate:"omitempty,max=200"`
	StudentStatus           *string `json:"student_status"`
	StudentClassName        *string `json:"student_class_name" validate:"omitempty,max=60"`
	StudentShift            *string `json:"student_shift" validate:"omitempty,max=30"`
	StudentTransportRequest *bool   `json:"student_transport_request"`
	StudentSpecialNeeds     *bool   `json:"student_special_needs"`
}

type StudentResponse struct {
	StudentID               string              `json:"student_id"`
	StudentName             string              `json:"student_name"`
	StudentBirthDate        string              `json:"student_birth_date"`
	StudentCPF              string              `json:"student_cpf"`
	StudentGuardianName     string              `json:"student_guardian_name"`
	StudentGuardianCPF      string              `json:"student_guardian_cpf"`
	StudentSchool           string              `json:"student_school"`
	StudentStatus           model.StudentStatus `json:"student_status"`
	StudentStatusLabel      string              `json:"student_status_label"`
	StudentClassName        string              `json:"student_class_name"`
	StudentShift            string              `json:"student_shift"`
	StudentShiftLabel       string              `json:"student_shift_label"`
	StudentTransportRequest bool                `json:"student_transport_request"`
	StudentSpecialNeeds     bool                `json:"student_special_needs"`
}

/* =========================================================
   Converters
========================================================= */

// ToModel resolves the status; an empty status means pending.
func (r *StudentRequest) ToModel() (model.StudentModel, error) {
	status := model.StudentStatusPending
	if strings.TrimSpace(r.StudentStatus) != "" {
		s, err := model.ParseStudentStatus(r.StudentStatus)
		if err != nil {
			return model.StudentModel{}, err
		}
		status = s
	}
	return model.StudentModel{
		StudentID:               strings.TrimSpace(r.StudentID),
		StudentName:             strings.TrimSpace(r.StudentName),
		StudentBirthDate:        strings.TrimSpace(r.StudentBirthDate),
		StudentCPF:              trimmedOrNil(r.StudentCPF),
		StudentGuardianName:     trimmedOrNil(r.StudentGuardianName),
		StudentGuardianCPF:      trimmedOrNil(r.StudentGuardianCPF),
		StudentSchool:           strings.TrimSpace(r.StudentSchool),
		StudentStatus:           status,
		StudentClassName:        strings.TrimSpace(r.StudentClassName),
		StudentShift:            strings.TrimSpace(r.StudentShift),
		StudentTransportRequest: r.StudentTransportRequest,
		StudentSpecialNeeds:     r.StudentSpecialNeeds,
	}, nil
}

func (r *StudentUpdateRequest) ApplyTo(m model.StudentModel) (model.StudentModel, error) {
	if r.StudentStatus != nil {
		s, err := model.ParseStudentStatus(*r.StudentStatus)
		if err != nil {
			return m, err
		}
		m.StudentStatus = s
	}
	if r.StudentName != nil {
		m.StudentName = strings.TrimSpace(*r.StudentName)
	}
	if r.StudentBirthDate != nil {
		m.StudentBirthDate = strings.TrimSpace(*r.StudentBirthDate)
	}
	if r.StudentCPF != nil {
		m.StudentCPF = trimmedOrNil(r.StudentCPF)
	}
	if r.StudentGuardianName != nil {
		m.StudentGuardianName = trimmedOrNil(r.StudentGuardianName)
	}
	if r.StudentGuardianCPF != nil {
		m.StudentGuardianCPF = trimmedOrNil(r.StudentGuardianCPF)
	}
	if r.StudentSchool != nil {
		m.StudentSchool = strings.TrimSpace(*r.StudentSchool)
	}
	if r.StudentClassName != nil {
		m.StudentClassName = strings.TrimSpace(*r.StudentClassName)
	}
	if r.StudentShift != nil {
		m.StudentShift = strings.TrimSpace(*r.StudentShift)
	}
	if r.StudentTransportRequest != nil {
		m.StudentTransportRequest = *r.StudentTransportRequest
	}
	if r.StudentSpecialNeeds != nil {
		m.StudentSpecialNeeds = *r.StudentSpecialNeeds
	}
	return m, nil
}

// FromModel renders a student. With maskCPF the documents keep only their last four digits.
func FromModel(m model.StudentModel, maskCPF bool) StudentResponse {
	cpf, gcpf := m.CPF(), m.GuardianCPF()
	if maskCPF {
		cpf, gcpf = MaskCPF(cpf), MaskCPF(gcpf)
	}
	if cpf == "" {
		cpf = "-"
	}
	return StudentResponse{
		StudentID:               m.StudentID,
		StudentName:             m.StudentName,
		StudentBirthDate:        m.StudentBirthDate,
		StudentCPF:              cpf,
		StudentGuardianName:     m.GuardianName(),
		StudentGuardianCPF:      gcpf,
		StudentSchool:           m.StudentSchool,
		StudentStatus:           m.StudentStatus,
		StudentStatusLabel:      m.StudentStatus.Label(),
		StudentClassName:        m.StudentClassName,
		StudentShift:            m.StudentShift,
		StudentShiftLabel:       model.ShiftLabel(m.StudentShift),
		StudentTransportRequest: m.StudentTransportRequest,
		StudentSpecialNeeds:     m.StudentSpecialNeeds,
	}
}

func FromModels(ms []model.StudentModel, maskCPF bool) []StudentResponse {
	out := make([]StudentResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m, maskCPF))
	}
	return out
}

// MaskCPF → "***.***.*89-00" style: every digit but the last four is hidden.
func MaskCPF(cpf string) string {
	total := len(fuzzy.Digits(cpf))
	if total == 0 {
		return ""
	}
	var b strings.Builder
	seen := 0
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= total-4 {
				b.WriteRune('*')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
