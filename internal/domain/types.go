package domain

// CodeType identifies the kind of generated code and selects its format
type CodeType string

const (
	// CodeTypeFlight is a flight ticket code
	CodeTypeFlight CodeType = "FLIGHT"
	// CodeTypeBus is a bus ticket code
	CodeTypeBus CodeType = "BUS"
	// CodeTypeFerry is a ferry ticket code
	CodeTypeFerry CodeType = "FERRY"
	// CodeTypeTrain is a train ticket code
	CodeTypeTrain CodeType = "TRAIN"
	// CodeTypeHotel is a hotel booking code
	CodeTypeHotel CodeType = "HOTEL"
	// CodeTypeTour is a tour booking code
	CodeTypeTour CodeType = "TOUR"
	// CodeTypeBookingRef is a short booking reference (no prefix, no timestamp)
	CodeTypeBookingRef CodeType = "BOOKING_REF"
	// CodeTypeConfirmation is a confirmation number (2 letters + 4 digits)
	CodeTypeConfirmation CodeType = "CONFIRMATION"
	// CodeTypeTracker is a shareable trip tracker identifier
	CodeTypeTracker CodeType = "TRACKER"
)

// TrackerPrefix is the fixed prefix of tracker codes. Search dispatches on it,
// so no ticket type may share it.
const TrackerPrefix = "TR"

// TicketCodeTypes lists the code types that represent travel tickets
// (everything except the tracker).
var TicketCodeTypes = []CodeType{
	CodeTypeFlight,
	CodeTypeBus,
	CodeTypeFerry,
	CodeTypeTrain,
	CodeTypeHotel,
	CodeTypeTour,
	CodeTypeBookingRef,
	CodeTypeConfirmation,
}

// Valid reports whether the code type is a known ticket type
func (t CodeType) Valid() bool {
	switch t {
	case CodeTypeFlight, CodeTypeBus, CodeTypeFerry, CodeTypeTrain,
		CodeTypeHotel, CodeTypeTour, CodeTypeBookingRef, CodeTypeConfirmation,
		CodeTypeTracker:
		return true
	}
	return false
}

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	// TripStatusActive is the default state of a newly created trip
	TripStatusActive TripStatus = "active"
	// TripStatusCompleted marks a finished trip
	TripStatusCompleted TripStatus = "completed"
	// TripStatusCancelled marks an abandoned trip
	TripStatusCancelled TripStatus = "cancelled"
)

// Valid reports whether the status is one of the known trip states
func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusActive, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}
