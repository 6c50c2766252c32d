package forecasting

import (
	"errors"

	"salescast/tabular"
)

// Failure kinds reported by the pipeline. They are wrapped with row or column
// context, so match them with errors.Is.
var (
	ErrMissingColumn    = tabular.ErrMissingColumn
	ErrInsufficientData = errors.New("insufficient data")
	ErrNonNumericSales  = errors.New("non-numeric sales value")
	ErrUnparseableDate  = errors.New("unparseable date")
	ErrInvalidPeriods   = errors.New("periods must be positive")
	ErrUnknownFrequency = errors.New("unknown frequency")
)
