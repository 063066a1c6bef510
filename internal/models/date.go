package models

import (
	"errors"
	"time"
)

// DateLayout is the DD-MM-YYYY layout used for completion dates on the wire.
const DateLayout = "02-01-2006"

var ErrInvalidDate = errors.New("invalid date")

func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
