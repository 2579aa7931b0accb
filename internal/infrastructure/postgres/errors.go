package postgres

import (
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/salones-api/internal/domain"
)

// Códigos SQLSTATE que la aplicación distingue.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeUndefinedColumn     = "42703"
	codeUndefinedTable      = "42P01"
	codeDuplicateColumn     = "42701"
	codeDuplicateTable      = "42P07"
)

var sqlStateKinds = map[string]domain.ErrorKind{
	codeUniqueViolation:     domain.KindUniqueViolation,
	codeForeignKeyViolation: domain.KindForeignKeyViolation,
	codeCheckViolation:      domain.KindCheckViolation,
	codeUndefinedColumn:     domain.KindUndefinedColumn,
	codeUndefinedTable:      domain.KindUndefinedTable,
	codeDuplicateColumn:     domain.KindDuplicateColumn,
	codeDuplicateTable:      domain.KindDuplicateTable,
}

// kindOf clasifica por SQLSTATE o por tipo de error de conexión.
func kindOf(err error) domain.ErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if k, ok := sqlStateKinds[pgErr.Code]; ok {
			return k
		}
		// clase 08: connection exception
		if strings.HasPrefix(pgErr.Code, "08") {
			return domain.KindConnection
		}
		return domain.KindUnknown
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return domain.KindConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.KindConnection
	}
	return domain.KindUnknown
}

// classify envuelve err en un domain.PersistenceError. pgx.ErrNoRows y los errores ya
// clasificados pasan sin cambios.
func classify(op string, err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &domain.PersistenceError{Kind: kindOf(err), Op: op, Err: err}
}
