package model

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a record id cannot be parsed
var ErrInvalidID = errors.New("invalid record id")

// Record is implemented by every resource owned by the remote API
type Record interface {
	GetID() int64
	Validate() error
}

// ValidationError lists the required fields a record is missing
type ValidationError struct {
	Missing []string
	Invalid []string
	// Alert is the operator-facing message shown in the blocking dialog
	Alert string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// validator accumulates field problems for a single record
type validator struct {
	err ValidationError
}

func (v *validator) required(name, value string) {
	if strings.TrimSpace(value) == "" {
		v.err.Missing = append(v.err.Missing, name)
	}
}

func (v *validator) oneOf(name string, ok bool) {
	if !ok {
		v.err.Invalid = append(v.err.Invalid, name)
	}
}

func (v *validator) result(alert string) error {
	if len(v.err.Missing) == 0 && len(v.err.Invalid) == 0 {
		return nil
	}
	v.err.Alert = alert
	if len(v.err.Missing) == 0 {
		v.err.Alert = "선택한 값이 올바르지 않습니다: " + strings.Join(v.err.Invalid, ", ")
	}
	return &v.err
}

// SortNewestFirst orders records by id, highest first. The remote API does
// not guarantee any order.
func SortNewestFirst[T Record](records []T) {
	slices.SortStableFunc(records, func(a, b T) int {
		return cmp.Compare(b.GetID(), a.GetID())
	})
}

// FindByID returns the record with the given id
func FindByID[T Record](records []T, id int64) (T, bool) {
	for _, r := range records {
		if r.GetID() == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// ParseID parses a positive decimal record id
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
