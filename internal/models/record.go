// ABOUTME: Record model for body-measurement entries.
// ABOUTME: Weight plus five circumferences, validated to be strictly positive.
package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord is returned when a Record fails field validation.
var ErrInvalidRecord = errors.New("invalid record")

// Measurement names, in column order.
const (
	FieldWeight     = "weight"
	FieldLeftBicep  = "left_bicep"
	FieldRightBicep = "right_bicep"
	FieldWaist      = "waist"
	FieldQuadriceps = "quadriceps"
	FieldCalves     = "calves"
)

// Fields lists every measurement name in column order.
var Fields = []string{
	FieldWeight, FieldLeftBicep, FieldRightBicep,
	FieldWaist, FieldQuadriceps, FieldCalves,
}

// Units maps measurement names to their display units.
var Units = map[string]string{
	FieldWeight:     "kg",
	FieldLeftBicep:  "cm",
	FieldRightBicep: "cm",
	FieldWaist:      "cm",
	FieldQuadriceps: "cm",
	FieldCalves:     "cm",
}

// IsValidField checks if a string names a measurement.
func IsValidField(s string) bool {
	for _, f := range Fields {
		if f == s {
			return true
		}
	}
	return false
}

// Record is one body-measurement entry. ID and RecordedAt are assigned by
// the database; both are zero before the record is persisted.
type Record struct {
	ID         int64     `json:"id" yaml:"id"`
	Weight     float64   `json:"weight" yaml:"weight" validate:"finite,gt=0"`
	LeftBicep  float64   `json:"left_bicep" yaml:"left_bicep" validate:"finite,gt=0"`
	RightBicep float64   `json:"right_bicep" yaml:"right_bicep" validate:"finite,gt=0"`
	Waist      float64   `json:"waist" yaml:"waist" validate:"finite,gt=0"`
	Quadriceps float64   `json:"quadriceps" yaml:"quadriceps" validate:"finite,gt=0"`
	Calves     float64   `json:"calves" yaml:"calves" validate:"finite,gt=0"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		return isFinite(fl.Field().Float())
	})
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NewRecord builds a Record from six measurements. It fails as a whole if
// any measurement is not strictly positive.
func NewRecord(weight, leftBicep, rightBicep, waist, quadriceps, calves float64) (*Record, error) {
	r := &Record{
		Weight:     weight,
		LeftBicep:  leftBicep,
		RightBicep: rightBicep,
		Waist:      waist,
		Quadriceps: quadriceps,
		Calves:     calves,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRecordID builds an id-only Record, used for lookups and deletes.
func NewRecordID(id int64) (*Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be greater than 0", ErrInvalidRecord)
	}
	return &Record{ID: id}, nil
}

// Validate checks that every measurement is a finite, strictly positive number.
func (r *Record) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "finite" {
			msgs = append(msgs, fmt.Sprintf("%s must be a finite number", fe.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must be greater than 0", fe.Field()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
}

// WithRecordedAt sets the recorded_at timestamp.
func (r *Record) WithRecordedAt(t time.Time) *Record {
	r.RecordedAt = t
	return r
}

// Value returns the measurement with the given name.
func (r *Record) Value(field string) (float64, bool) {
	switch field {
	case FieldWeight:
		return r.Weight, true
	case FieldLeftBicep:
		return r.LeftBicep, true
	case FieldRightBicep:
		return r.RightBicep, true
	case FieldWaist:
		return r.Waist, true
	case FieldQuadriceps:
		return r.Quadriceps, true
	case FieldCalves:
		return r.Calves, true
	}
	return 0, false
}

// Set assigns the measurement with the given name. Non-finite and
// non-positive values are rejected and leave the record unchanged.
func (r *Record) Set(field string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidRecord, field)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be greater than 0", ErrInvalidRecord, field)
	}
	switch field {
	case FieldWeight:
		r.Weight = v
	case FieldLeftBicep:
		r.LeftBicep = v
	case FieldRightBicep:
		r.RightBicep = v
	case FieldWaist:
		r.Waist = v
	case FieldQuadriceps:
		r.Quadriceps = v
	case FieldCalves:
		r.Calves = v
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidRecord, field)
	}
	return nil
}

// SameMeasurements reports whether all six measurements match within tol.
func (r Record) SameMeasurements(o Record, tol float64) bool {
	for _, f := range Fields {
		a, _ := r.Value(f)
		b, _ := o.Value(f)
		if math.Abs(a-b) > tol {
			return false
		}
	}
	return true
}

func (r Record) String() string {
	return fmt.Sprintf("Record{id=%d, weight=%.2f, left_bicep=%.2f, right_bicep=%.2f, waist=%.2f, quadriceps=%.2f, calves=%.2f, recorded_at=%s}",
		r.ID, r.Weight, r.LeftBicep, r.RightBicep, r.Waist, r.Quadriceps, r.Calves,
		r.RecordedAt.Format(time.RFC3339))
}
