package repository

import (
	"context"

	"github.com/jhoicas/salones-api/internal/domain/schema"
)

// DuplicateGroup filas que comparten la misma clave natural; IDs ascendentes.
type DuplicateGroup struct {
	Key string  `json:"key"`
	IDs []int64 `json:"ids"`
}

// DuplicateRepository detección y reasignación de referencias.
type DuplicateRepository interface {
	// FindGroups agrupa table por column (ignorando NULL y vacío) y devuelve grupos con más de una fila.
	FindGroups(ctx context.Context, table, column string) ([]DuplicateGroup, error)
	// Repoint mueve las referencias de ref de fromID a toID. Con ref.UniqueWith, las filas que
	// chocarían con una ya existente se borran: moved + dropped.
	Repoint(ctx context.Context, ref schema.Edge, fromID, toID int64) (moved, dropped int64, err error)
	DeleteRow(ctx context.Context, table string, id int64) (int64, error)
}

// ResetRepository ejecuta planes de limpieza.
type ResetRepository interface {
	// Nullify pone en NULL la columna de la arista en toda la tabla hija.
	Nullify(ctx context.Context, e schema.Edge) (int64, error)
	DeleteAll(ctx context.Context, table string) (int64, error)
	// DeleteRowStep ejecuta un paso de borrado en cascada para la fila raíz rootID.
	DeleteRowStep(ctx context.Context, root string, step schema.RowStep, rootID int64) (int64, error)
}

// SequenceRepository reinicio de secuencias (fuera de la transacción de borrado).
type SequenceRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Restart(ctx context.Context, name string) error
}
