package repository

import "time"

// UpdateSet collects the columns of a partial update in the order they were
// supplied. Values are passed to GORM as bound parameters.
type UpdateSet struct {
	columns []string
	values  map[string]any
}

func NewUpdateSet() *UpdateSet {
	return &UpdateSet{values: make(map[string]any)}
}

// Set records a column. Setting the same column twice keeps the last value.
func (u *UpdateSet) Set(column string, value any) *UpdateSet {
	if _, ok := u.values[column]; !ok {
		u.columns = append(u.columns, column)
	}
	u.values[column] = value
	return u
}

// Len is the number of caller supplied columns, updated_at excluded.
func (u *UpdateSet) Len() int {
	return len(u.columns)
}

func (u *UpdateSet) Columns() []string {
	out := make([]string, len(u.columns))
	copy(out, u.columns)
	return out
}

// Map returns the assignments with updated_at stamped to now.
func (u *UpdateSet) Map(now time.Time) map[string]any {
	out := make(map[string]any, len(u.values)+1)
	for column, value := range u.values {
		out[column] = value
	}
	out["updated_at"] = now
	return out
}
