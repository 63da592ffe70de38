package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/database/postgres"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

const boundariesTable = "boundaries"

type BoundaryRepository interface {
	GetByLevel(level domain.AdminLevel) ([]domain.Boundary, error)
	ReplaceAll(ctx context.Context, level domain.AdminLevel, boundaries []domain.Boundary) error
}

type boundaryRepository struct {
	conn *postgres.Connection
}

func NewBoundaryRepository(conn *postgres.Connection) BoundaryRepository {
	return &boundaryRepository{
		conn: conn,
	}
}

func (r *boundaryRepository) GetByLevel(level domain.AdminLevel) ([]domain.Boundary, error) {
	sqlQuery, args, err := squirrel.
		Select("entity", "district", "geometry").
		From(boundariesTable).
		Where(squirrel.Eq{"level": string(level)}).
		OrderBy("district ASC", "entity ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building boundaries query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying boundaries: %w", err)
	}
	defer rows.Close()

	boundaries := make([]domain.Boundary, 0)
	for rows.Next() {
		b := domain.Boundary{Level: level}
		var geometry []byte
		if err := rows.Scan(&b.Entity, &b.District, &geometry); err != nil {
			return nil, fmt.Errorf("scanning boundary: %w", err)
		}
		b.Geometry = geometry
		boundaries = append(boundaries, b)
	}

	return boundaries, rows.Err()
}

func (r *boundaryRepository) ReplaceAll(ctx context.Context, level domain.AdminLevel, boundaries []domain.Boundary) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		deleteQuery, deleteArgs, err := squirrel.
			Delete(boundariesTable).
			Where(squirrel.Eq{"level": string(level)}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("building boundaries delete: %w", err)
		}

		if _, err := tx.Exec(deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("clearing boundaries: %w", err)
		}

		if len(boundaries) == 0 {
			return nil
		}

		insert := squirrel.
			Insert(boundariesTable).
			Columns("level", "entity", "district", "geometry").
			PlaceholderFormat(squirrel.Dollar)

		for _, b := range boundaries {
			insert = insert.Values(string(level), b.Entity, b.District, []byte(b.Geometry))
		}

		sqlQuery, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("building boundaries insert: %w", err)
		}

		if _, err := tx.Exec(sqlQuery, args...); err != nil {
			return fmt.Errorf("inserting boundaries: %w", err)
		}

		return nil
	})
}
