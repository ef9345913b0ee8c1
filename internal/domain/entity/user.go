package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
)

// User usuario del sistema; su ID queda en created_by de operaciones y movimientos.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
