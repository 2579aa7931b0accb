package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrLocked            = errors.New("operación en curso por otro proceso")
	ErrVenueInactive     = errors.New("salón inactivo")
)

// ErrorKind clasifica los errores que vienen de la capa de persistencia.
// Se decide por código SQLSTATE o por tipo de error del driver, nunca por el texto del mensaje.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUniqueViolation
	KindForeignKeyViolation
	KindCheckViolation
	KindUndefinedColumn
	KindUndefinedTable
	KindDuplicateColumn
	KindDuplicateTable
	KindConnection
)

var kindNames = map[ErrorKind]string{
	KindUnknown:             "unknown",
	KindUniqueViolation:     "unique_violation",
	KindForeignKeyViolation: "foreign_key_violation",
	KindCheckViolation:      "check_violation",
	KindUndefinedColumn:     "undefined_column",
	KindUndefinedTable:      "undefined_table",
	KindDuplicateColumn:     "duplicate_column",
	KindDuplicateTable:      "duplicate_table",
	KindConnection:          "connection_error",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// AlreadyExists indica conflictos idempotentes de DDL/seed (columna, tabla o clave ya existente).
func (k ErrorKind) AlreadyExists() bool {
	switch k {
	case KindUniqueViolation, KindDuplicateColumn, KindDuplicateTable:
		return true
	default:
		return false
	}
}

// PersistenceError envuelve un error del driver con su clasificación.
type PersistenceError struct {
	Kind ErrorKind
	Op   string // operación que falló, ej. "insert venue_stock"
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// KindOf devuelve la clasificación de err (KindUnknown si no es un PersistenceError).
func KindOf(err error) ErrorKind {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}
