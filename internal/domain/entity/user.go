package entity

import "time"

// Roles de usuario del back-office.
const (
	RoleAdmin   = "admin"   // cadena completa
	RoleGerente = "gerente" // gerente de sucursal
	RoleCajero  = "cajero"  // operación diaria
)

// User representa un usuario del back-office (staff de la cadena).
type User struct {
	ID           string
	BranchID     string // vacío para admin de cadena
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
