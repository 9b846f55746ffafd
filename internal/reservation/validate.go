package reservation

import (
	"fmt"
	"time"

	"github.com/avstrong/stayhub/internal/validation"
)

const (
	FieldCheckInDate    = "checkInDate"
	FieldCheckInTime    = "checkInTime"
	FieldCheckOutDate   = "checkOutDate"
	FieldCheckOutTime   = "checkOutTime"
	FieldDateRange      = "dateRange"
	FieldNumberOfGuests = "numberOfGuests"
)

// Validate runs every field check and collects all failures. A capacity of
// zero means the accommodation is not known yet and the upper bound on
// guests is skipped.
func (f Form) Validate(capacity int) validation.Errors {
	errs := validation.New()

	checkIn, checkInOK := checkInstant(errs, f.CheckInDate, f.CheckInTime, FieldCheckInDate, FieldCheckInTime, "check-in")
	checkOut, checkOutOK := checkInstant(errs, f.CheckOutDate, f.CheckOutTime, FieldCheckOutDate, FieldCheckOutTime, "check-out")

	if checkInOK && checkOutOK && !IsValidRange(checkIn, checkOut) {
		errs.Add(FieldDateRange, "check-out must be after check-in")
	}

	if f.NumberOfGuests < 1 {
		errs.Add(FieldNumberOfGuests, "at least one guest is required")
	}

	if capacity > 0 && f.NumberOfGuests > capacity {
		errs.Add(FieldNumberOfGuests, fmt.Sprintf("guests exceed accommodation capacity of %d", capacity))
	}

	return errs
}

func checkInstant(
	errs validation.Errors,
	date, clock, dateField, clockField, label string,
) (time.Time, bool) {
	ok := true

	switch {
	case date == "":
		errs.Add(dateField, label+" date is required")

		ok = false
	default:
		if _, err := parseDate(date); err != nil {
			errs.Add(dateField, "provide "+label+" date as YYYY-MM-DD")

			ok = false
		}
	}

	if clock != "" {
		if err := parseClock(clock); err != nil {
			errs.Add(clockField, "provide "+label+" time as HH:MM")

			ok = false
		}
	}

	if !ok {
		return time.Time{}, false
	}

	instant, err := combineAndParse(date, clock)
	if err != nil {
		errs.Add(dateField, "provide "+label+" date as YYYY-MM-DD")

		return time.Time{}, false
	}

	return instant, true
}
