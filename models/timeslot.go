package models

import "time"

// TitleAvailable is the label carried by free capacity.
const TitleAvailable = "available"

// Timeslot represents one interval of a provider's calendar, booked or free.
// All instants are kept in a single reference zone (UTC).
type Timeslot struct {
	ID      string `bson:"id" json:"id"`
	OwnerID string `bson:"ownerId" json:"ownerId"`

	Start time.Time `bson:"start" json:"start"` // service window as the owner perceives it
	End   time.Time `bson:"end" json:"end"`

	// Transit-padded boundaries, present only while booked. They reserve the
	// owner's travel/prep buffer: TransitStart <= Start <= End <= TransitEnd.
	TransitStart *time.Time `bson:"transitStart,omitempty" json:"transitStart,omitempty"`
	TransitEnd   *time.Time `bson:"transitEnd,omitempty" json:"transitEnd,omitempty"`

	IsFixed  bool `bson:"isFixed" json:"isFixed"` // weekly recurrence template
	IsBooked bool `bson:"isBooked" json:"isBooked"`

	// Back-references to the consumer-facing aggregate occupying the slot.
	// At most one of these is non-empty at a time.
	BookingRequestID string `bson:"bookingRequestId,omitempty" json:"bookingRequestId,omitempty"`
	BookingJobID     string `bson:"bookingJobId,omitempty" json:"bookingJobId,omitempty"`

	Title string `bson:"title" json:"title"`
}

// OccupiedBounds returns the effective span the slot occupies on the
// calendar: the transit-padded window while booked, the plain window
// otherwise.
func (t Timeslot) OccupiedBounds() (time.Time, time.Time) {
	start, end := t.Start, t.End
	if t.TransitStart != nil {
		start = *t.TransitStart
	}
	if t.TransitEnd != nil {
		end = *t.TransitEnd
	}
	return start, end
}

// Covers reports whether the slot's plain window fully contains [start, end].
func (t Timeslot) Covers(start, end time.Time) bool {
	return !t.Start.After(start) && !t.End.Before(end)
}
