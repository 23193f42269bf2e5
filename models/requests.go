package models

import "time"

// BookRequest is the input to the booking coordinator.
type BookRequest struct {
	OwnerID          string    `json:"ownerId" binding:"required"`
	Start            time.Time `json:"start" binding:"required"`
	End              time.Time `json:"end" binding:"required"`
	PaddingMinutes   int       `json:"paddingMinutes"`
	BookingRequestID string    `json:"bookingRequestId"`
	BookingJobID     string    `json:"bookingJobId"`
	Title            string    `json:"title"`
	// IsUpdate marks a booking made while reworking an existing reservation;
	// partial coverage is then surfaced as a catchable error instead of a
	// terminal conflict.
	IsUpdate bool `json:"isUpdate"`
}

// DeclareAvailabilityRequest declares a free window on an owner's calendar.
type DeclareAvailabilityRequest struct {
	OwnerID string    `json:"ownerId" binding:"required"`
	Start   time.Time `json:"start" binding:"required"`
	End     time.Time `json:"end" binding:"required"`
	Title   string    `json:"title"`
}
