package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin         = "admin"
	RoleGerente       = "gerente"
	RoleRecepcionista = "recepcionista"
)

// User representa un usuario del sistema, adscrito a una sucursal.
type User struct {
	ID           string
	BranchID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, gerente, recepcionista
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
