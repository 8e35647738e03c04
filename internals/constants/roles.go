package constants

import "fmt"

const (
	RoleAdmin = "admin"
)

const ErrOnlyAdminsCanAccess = "Apenas administradores podem acessar %s."

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var AdminOnly = []string{RoleAdmin}
