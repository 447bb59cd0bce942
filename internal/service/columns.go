package service

import (
	"slices"

	"github.com/niktheblak/ruuvitag-common/pkg/sensor"
)

// ColumnMap returns the configured column map restricted to the requested
// output columns, or the whole map when none are requested.
func (s *service) ColumnMap(requestedColumns []string) (map[string]string, error) {
	if len(requestedColumns) == 0 {
		return s.columnMap, nil
	}
	if err := sensor.ValidateRequestedColumns(s.columnMap, requestedColumns); err != nil {
		return nil, err
	}
	m := make(map[string]string, len(requestedColumns))
	for field, column := range s.columnMap {
		if slices.Contains(requestedColumns, column) {
			m[field] = column
		}
	}
	return m, nil
}
