package driver

// SearchHitDriver is a raw hit as decoded from a store response.
type SearchHitDriver struct {
	ID    string
	Score float64
}

// SearchOptionsDriver carries query options down to the store request.
type SearchOptionsDriver struct {
	Limit  int64
	Filter string
}

// DriverError represents an error from the driver layer. Transient marks
// failures worth retrying (network errors, 5xx responses).
type DriverError struct {
	Op        string
	Err       string
	Transient bool
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}
