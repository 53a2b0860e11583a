package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"procurement/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Storage доступ к PostgreSQL. Создается один раз и передается во все компоненты.
type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx транзакция для многошаговых записей
type Tx struct {
	tx *sqlx.Tx
}

// WithTx выполняет fn в транзакции. Ошибка fn или паника откатывают ее.
func (s *Storage) WithTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// translateErr приводит ошибки драйвера к доменным
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", models.ErrConflict, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", models.ErrNotFound, pqErr.Constraint)
		case pqCheckViolation:
			return fmt.Errorf("%w: %s", models.ErrInvalidBid, pqErr.Constraint)
		}
	}
	return err
}

// expectAffected возвращает ErrNotFound, если запрос не затронул ни одной строки
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
