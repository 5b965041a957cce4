package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// Коды ошибок PostgreSQL, которые имеют смысл для вызывающего
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// withTx выполняет fn в одной транзакции. Любая ошибка fn откатывает всё,
// что успело выполниться, поэтому скалярные поля и связи сущности
// меняются только вместе.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}
	return nil
}

// translateError превращает нарушения ограничений в ошибки домена.
// Остальные ошибки возвращаются как есть и считаются внутренними.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: referenced row does not exist (%s)", domain.ErrNotFound, pqErr.Constraint)
	case pqCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pqErr.Constraint)
	}
	return err
}
