// Package repository contains the data access implementations.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/database/postgres"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

const (
	districtObservationsTable = "district_observations"
	sectorObservationsTable   = "sector_observations"
	datasetLoadsTable         = "dataset_loads"
)

type ObservationRepository interface {
	GetByPeriod(level domain.AdminLevel, period domain.Period) ([]domain.Observation, error)
	GetSeries(level domain.AdminLevel, entities []domain.EntityRef) ([]domain.Observation, error)
	ListEntities(level domain.AdminLevel) ([]domain.EntityRef, error)
	GetAvailablePeriods(level domain.AdminLevel) (*domain.AvailablePeriods, error)
	ReplaceAll(ctx context.Context, level domain.AdminLevel, observations []domain.Observation, load *domain.DatasetLoad) error
}

type observationRepository struct {
	conn *postgres.Connection
}

func NewObservationRepository(conn *postgres.Connection) ObservationRepository {
	return &observationRepository{
		conn: conn,
	}
}

func (r *observationRepository) GetByPeriod(level domain.AdminLevel, period domain.Period) ([]domain.Observation, error) {
	queryBuilder := r.selectColumns(level).
		Where(squirrel.Eq{"year": period.Year, "month": period.Month}).
		OrderBy(r.orderColumns(level))

	return r.queryObservations(level, queryBuilder)
}

func (r *observationRepository) GetSeries(level domain.AdminLevel, entities []domain.EntityRef) ([]domain.Observation, error) {
	if len(entities) == 0 {
		return []domain.Observation{}, nil
	}

	var filter squirrel.Or
	for _, ref := range entities {
		if level == domain.AdminLevelSectors {
			filter = append(filter, squirrel.Eq{"sector": ref.Entity, "district": ref.District})
		} else {
			filter = append(filter, squirrel.Eq{"district": ref.Entity})
		}
	}

	queryBuilder := r.selectColumns(level).
		Where(filter).
		OrderBy("year ASC", "month ASC")

	return r.queryObservations(level, queryBuilder)
}

func (r *observationRepository) ListEntities(level domain.AdminLevel) ([]domain.EntityRef, error) {
	var queryBuilder squirrel.SelectBuilder
	if level == domain.AdminLevelSectors {
		queryBuilder = squirrel.
			Select("sector", "district").
			Distinct().
			From(sectorObservationsTable).
			OrderBy("district ASC", "sector ASC").
			PlaceholderFormat(squirrel.Dollar)
	} else {
		queryBuilder = squirrel.
			Select("district", "district").
			Distinct().
			From(districtObservationsTable).
			OrderBy("district ASC").
			PlaceholderFormat(squirrel.Dollar)
	}

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building entities query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	entities := make([]domain.EntityRef, 0)
	for rows.Next() {
		var ref domain.EntityRef
		if err := rows.Scan(&ref.Entity, &ref.District); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		if level == domain.AdminLevelDistricts {
			ref.District = ""
		}
		entities = append(entities, ref)
	}

	return entities, rows.Err()
}

func (r *observationRepository) GetAvailablePeriods(level domain.AdminLevel) (*domain.AvailablePeriods, error) {
	queryBuilder := squirrel.
		Select("year", "month").
		Distinct().
		From(r.table(level)).
		OrderBy("year DESC", "month DESC").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building periods query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying periods: %w", err)
	}
	defer rows.Close()

	available := &domain.AvailablePeriods{
		Periods: make([]domain.Period, 0),
		Years:   make([]int, 0),
		Months:  make([]int, 0),
	}
	seenYears := make(map[int]bool)
	seenMonths := make(map[int]bool)

	for rows.Next() {
		var p domain.Period
		if err := rows.Scan(&p.Year, &p.Month); err != nil {
			return nil, fmt.Errorf("scanning period: %w", err)
		}

		available.Periods = append(available.Periods, p)
		if !seenYears[p.Year] {
			seenYears[p.Year] = true
			available.Years = append(available.Years, p.Year)
		}
		if !seenMonths[p.Month] {
			seenMonths[p.Month] = true
			available.Months = append(available.Months, p.Month)
		}
	}

	return available, rows.Err()
}

// ReplaceAll swaps the full observation set for a level in one transaction,
// recording the ingestion batch in dataset_loads.
func (r *observationRepository) ReplaceAll(
	ctx context.Context,
	level domain.AdminLevel,
	observations []domain.Observation,
	load *domain.DatasetLoad,
) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", r.table(level))); err != nil {
			return fmt.Errorf("clearing %s: %w", r.table(level), err)
		}

		insert := r.insertColumns(level)
		for _, obs := range observations {
			insert = insert.Values(r.insertValues(level, obs, load.ID)...)
		}

		sqlQuery, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("building insert: %w", err)
		}

		if _, err := tx.Exec(sqlQuery, args...); err != nil {
			return fmt.Errorf("inserting observations: %w", err)
		}

		loadQuery, loadArgs, err := squirrel.
			Insert(datasetLoadsTable).
			Columns("id", "level", "source_file", "record_count").
			Values(load.ID, string(load.Level), load.SourceFile, load.RecordCount).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("building load insert: %w", err)
		}

		if _, err := tx.Exec(loadQuery, loadArgs...); err != nil {
			return fmt.Errorf("recording dataset load: %w", err)
		}

		return nil
	})
}

func (r *observationRepository) table(level domain.AdminLevel) string {
	if level == domain.AdminLevelSectors {
		return sectorObservationsTable
	}
	return districtObservationsTable
}

func (r *observationRepository) orderColumns(level domain.AdminLevel) string {
	if level == domain.AdminLevelSectors {
		return "district ASC, sector ASC"
	}
	return "district ASC"
}

func (r *observationRepository) selectColumns(level domain.AdminLevel) squirrel.SelectBuilder {
	if level == domain.AdminLevelSectors {
		return squirrel.
			Select("sector", "district", "year", "month", "simple_cases", "incidence", "population").
			From(sectorObservationsTable).
			PlaceholderFormat(squirrel.Dollar)
	}

	return squirrel.
		Select("district", "year", "month", "all_cases", "severe_cases_deaths", "incidence", "population").
		From(districtObservationsTable).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *observationRepository) insertColumns(level domain.AdminLevel) squirrel.InsertBuilder {
	if level == domain.AdminLevelSectors {
		return squirrel.
			Insert(sectorObservationsTable).
			Columns("sector", "district", "year", "month", "simple_cases", "incidence", "population", "load_id").
			PlaceholderFormat(squirrel.Dollar)
	}

	return squirrel.
		Insert(districtObservationsTable).
		Columns("district", "year", "month", "all_cases", "severe_cases_deaths", "incidence", "population", "load_id").
		PlaceholderFormat(squirrel.Dollar)
}

func (r *observationRepository) insertValues(level domain.AdminLevel, obs domain.Observation, loadID string) []interface{} {
	if level == domain.AdminLevelSectors {
		return []interface{}{
			obs.Entity,
			obs.District,
			obs.Year,
			obs.Month,
			obs.Value(domain.MetricSimpleCases),
			obs.Value(domain.MetricIncidence),
			obs.Value(domain.MetricPopulation),
			loadID,
		}
	}

	return []interface{}{
		obs.Entity,
		obs.Year,
		obs.Month,
		obs.Value(domain.MetricAllCases),
		obs.Value(domain.MetricSevereCasesDeaths),
		obs.Value(domain.MetricIncidence),
		obs.Value(domain.MetricPopulation),
		loadID,
	}
}

func (r *observationRepository) queryObservations(level domain.AdminLevel, queryBuilder squirrel.SelectBuilder) ([]domain.Observation, error) {
	sqlQuery, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building observations query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	observations := make([]domain.Observation, 0)
	for rows.Next() {
		obs, err := r.scanObservation(level, rows)
		if err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		observations = append(observations, *obs)
	}

	return observations, rows.Err()
}

func (r *observationRepository) scanObservation(level domain.AdminLevel, rows *sql.Rows) (*domain.Observation, error) {
	obs := &domain.Observation{Measures: domain.Measures{}}

	if level == domain.AdminLevelSectors {
		var simpleCases, incidence, population float64
		err := rows.Scan(&obs.Entity, &obs.District, &obs.Year, &obs.Month, &simpleCases, &incidence, &population)
		if err != nil {
			return nil, err
		}

		obs.Measures[domain.MetricSimpleCases] = simpleCases
		obs.Measures[domain.MetricIncidence] = incidence
		obs.Measures[domain.MetricPopulation] = population
		return obs, nil
	}

	var allCases, severeCases, incidence, population float64
	err := rows.Scan(&obs.Entity, &obs.Year, &obs.Month, &allCases, &severeCases, &incidence, &population)
	if err != nil {
		return nil, err
	}

	obs.District = obs.Entity
	obs.Measures[domain.MetricAllCases] = allCases
	obs.Measures[domain.MetricSevereCasesDeaths] = severeCases
	obs.Measures[domain.MetricIncidence] = incidence
	obs.Measures[domain.MetricPopulation] = population
	return obs, nil
}
