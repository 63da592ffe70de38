// Package dataset reads the surveillance source files (CSV or XLSX
// observation tables, GeoJSON boundaries) into domain types.
package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

// Source column headers as they appear in the published datasets.
const (
	colDistrict    = "district"
	colSector      = "sector"
	colYear        = "year"
	colMonth       = "month"
	colAllCases    = "all cases"
	colSevereCases = "severe cases/deaths"
	colAllCasesInc = "all cases incidence"
	colSimpleCases = "simple malaria cases"
	colIncidence   = "incidence"
	colPopulation  = "population"
)

// LoadObservations reads an observation table for the given level. The
// format is picked from the file extension: .csv or .xlsx.
func LoadObservations(level domain.AdminLevel, path string) ([]domain.Observation, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, errors.Errorf("unsupported dataset format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return parseRows(level, rows, path)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dataset %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading csv %s", path)
	}

	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening workbook %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s of %s", sheets[0], path)
	}

	return rows, nil
}

func parseRows(level domain.AdminLevel, rows [][]string, path string) ([]domain.Observation, error) {
	if len(rows) < 2 {
		return nil, errors.Errorf("dataset %s has no data rows", path)
	}

	header := indexHeader(rows[0])

	required := []string{colYear, colMonth}
	if level == domain.AdminLevelSectors {
		required = append(required, colSector, colDistrict)
	} else {
		required = append(required, colDistrict)
	}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, errors.Errorf("dataset %s is missing required column %q", path, col)
		}
	}

	observations := make([]domain.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		obs, err := parseRow(level, header, row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d of %s", i+2, path)
		}
		if obs == nil { // blank line
			continue
		}
		observations = append(observations, *obs)
	}

	return observations, nil
}

func indexHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func parseRow(level domain.AdminLevel, header map[string]int, row []string) (*domain.Observation, error) {
	cell := func(col string) string {
		i, ok := header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entity := cell(colDistrict)
	district := entity
	if level == domain.AdminLevelSectors {
		entity = cell(colSector)
		district = cell(colDistrict)
	}
	if entity == "" {
		return nil, nil
	}

	year, err := strconv.Atoi(cell(colYear))
	if err != nil {
		return nil, errors.Wrap(err, "parsing year")
	}

	month, err := strconv.Atoi(cell(colMonth))
	if err != nil {
		return nil, errors.Wrap(err, "parsing month")
	}
	if month < 1 || month > 12 {
		return nil, errors.Errorf("month out of range: %d", month)
	}

	obs := &domain.Observation{
		Entity:   entity,
		District: district,
		Year:     year,
		Month:    month,
		Measures: domain.Measures{},
	}

	if level == domain.AdminLevelSectors {
		obs.Measures[domain.MetricSimpleCases] = parseMeasure(cell(colSimpleCases))
		obs.Measures[domain.MetricIncidence] = parseMeasure(cell(colIncidence))
	} else {
		obs.Measures[domain.MetricAllCases] = parseMeasure(cell(colAllCases))
		obs.Measures[domain.MetricSevereCasesDeaths] = parseMeasure(cell(colSevereCases))
		obs.Measures[domain.MetricIncidence] = parseMeasure(cell(colAllCasesInc))
	}
	obs.Measures[domain.MetricPopulation] = parseMeasure(cell(colPopulation))

	return obs, nil
}

// parseMeasure treats blank or malformed measure cells as 0 rather than
// failing the whole ingestion.
func parseMeasure(s string) float64 {
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
