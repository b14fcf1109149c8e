package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a status code is not one of the known codes.
var ErrInvalidStatus = errors.New("invalid book status")

// BookStatus is the lifecycle state of a catalog item.
// The zero value is StatusAvailable.
type BookStatus int

const (
	StatusAvailable BookStatus = iota
	StatusIssued
)

var statusCodes = map[BookStatus]string{
	StatusAvailable: "1",
	StatusIssued:    "2",
}

var statusNames = map[BookStatus]string{
	StatusAvailable: "AVAILABLE",
	StatusIssued:    "ISSUED",
}

// Statuses returns every status in code order.
func Statuses() []BookStatus {
	return []BookStatus{StatusAvailable, StatusIssued}
}

// ParseStatus maps a short code ("1", "2") to its status.
func ParseStatus(code string) (BookStatus, error) {
	for _, s := range Statuses() {
		if statusCodes[s] == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, code)
}

// Valid reports whether s is one of the declared statuses.
func (s BookStatus) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// Code is the stable short code used for input and persistence.
func (s BookStatus) Code() string {
	return statusCodes[s]
}

func (s BookStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("BookStatus(%d)", int(s))
}

func (s BookStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}
	return json.Marshal(s.Code())
}

func (s *BookStatus) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("%w: status must be a string code: %s", ErrInvalidStatus, data)
	}
	parsed, err := ParseStatus(code)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
