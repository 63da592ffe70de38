package reporting

import "errors"

var (
	// ErrNoDataForSelection signals an empty current-period selection. The
	// handler turns it into a user-facing "no data" response.
	ErrNoDataForSelection = errors.New("no data for selection")

	// ErrUnknownMetric signals a metric key not in the level's catalog.
	ErrUnknownMetric = errors.New("unknown metric for admin level")
)
