package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "administrador"
	RoleInventario = "inventario"
	RoleGerente    = "gerente"
	RoleVendedor   = "vendedor"
	RoleCliente    = "cliente"
)

// User usuario del back office.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt, nunca en claro
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
}
