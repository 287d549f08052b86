package utils

import "errors"

var (
	ErrInvalidPage       = errors.New("invalid page parameter")
	ErrInvalidPageSize   = errors.New("invalid page size parameter")
	ErrInvalidPlanInput  = errors.New("invalid plan request")
	ErrEmptyCandidates   = errors.New("no usable activities for destination")
	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrDatabaseError     = errors.New("database error")
)
