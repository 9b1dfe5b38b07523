package merge

import "errors"

var (
	ErrMalformedFilename  = errors.New("malformed filename")
	ErrMalformedRow       = errors.New("malformed row")
	ErrDuplicateLabel     = errors.New("duplicate condition label")
	ErrUnknownCondition   = errors.New("condition not in column list")
	ErrMissingObservation = errors.New("missing observation")
	ErrNoInputFiles       = errors.New("no input files matched")
)
