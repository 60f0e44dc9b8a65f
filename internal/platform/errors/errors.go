package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrNoMeasurement      = errors.New("no measurement decoded")
	ErrDecodeInFlight     = errors.New("a decode is already in progress")
	ErrUndecodable        = errors.New("qr payload could not be decoded")
	ErrScannerUnavailable = errors.New("no scanner plugin available")
)
