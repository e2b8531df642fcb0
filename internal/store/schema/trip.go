package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Trip represents the trips table - the primary ownable record. A trip is
// owned by a registered user, an anonymous session, or neither (orphaned,
// reachable only through a tracker).
type Trip struct {
	// ID is a client-visible UUID primary key
	ID string `gorm:"column:id;primaryKey;type:varchar(36)"`
	// UserID references the owning user, if any
	UserID *int64 `gorm:"column:user_id;index"`
	// SessionID is the owning anonymous session, if any
	SessionID *string `gorm:"column:session_id;index;type:varchar(255)"`
	// TripName is the display name
	TripName string `gorm:"column:trip_name;not null;type:varchar(100)"`
	// Destination is the free-form destination summary
	Destination string `gorm:"column:destination;type:varchar(100)"`
	// StartDate is the optional first travel day
	StartDate *time.Time `gorm:"column:start_date;type:date"`
	// EndDate is the optional last travel day
	EndDate *time.Time `gorm:"column:end_date;type:date"`
	// Budget is the planned spend
	Budget float64 `gorm:"column:budget;not null;default:0;type:numeric(10,2)"`
	// Travelers is the party size
	Travelers int `gorm:"column:travelers;not null;default:1"`
	// Status is the lifecycle state (active, completed, cancelled)
	Status string `gorm:"column:status;not null;default:'active';type:varchar(20)"`
	// CreatedAt is when the trip was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp of the last change
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Associations
	Destinations []TripDestination `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Routes       []TripRoute       `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Trackers     []TripTracker     `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Trip model
func (Trip) TableName() string {
	return "trips"
}

// TripDestination represents the trip_destinations table - ordered stops on a
// trip's itinerary
type TripDestination struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TripID references the owning trip
	TripID string `gorm:"column:trip_id;not null;index;type:varchar(36)"`
	// DestinationID is an optional reference into the destination catalog
	DestinationID *int64 `gorm:"column:destination_id"`
	// Name is the place name
	Name string `gorm:"column:name;not null;type:varchar(255)"`
	// City is the place's city
	City string `gorm:"column:city;type:varchar(100)"`
	// Province is the place's province
	Province string `gorm:"column:province;type:varchar(100)"`
	// Description is the free-form place description
	Description string `gorm:"column:description;type:text"`
	// Category is the place category (hotel, cafe, ...)
	Category string `gorm:"column:category;type:varchar(50)"`
	// Rating is the catalog rating, if known
	Rating *float64 `gorm:"column:rating;type:numeric(3,2)"`
	// Budget is the expected spend at this stop
	Budget *float64 `gorm:"column:budget;type:numeric(10,2)"`
	// Latitude is the place's latitude
	Latitude *float64 `gorm:"column:latitude;type:numeric(10,8)"`
	// Longitude is the place's longitude
	Longitude *float64 `gorm:"column:longitude;type:numeric(11,8)"`
	// OperatingHours is the place's opening schedule
	OperatingHours string `gorm:"column:operating_hours;type:varchar(255)"`
	// ContactInformation is the place's contact details
	ContactInformation string `gorm:"column:contact_information;type:varchar(255)"`
	// OrderIndex is the stop's position within the itinerary
	OrderIndex int `gorm:"column:order_index;not null;default:0;index:idx_trip_destinations_order,priority:2"`
	// AddedAt is when the stop was added
	AddedAt time.Time `gorm:"column:added_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TripDestination model
func (TripDestination) TableName() string {
	return "trip_destinations"
}

// TripRoute represents the trip_routes table - the latest calculated route
// geometry for a trip. Saving a route replaces any previous one.
type TripRoute struct {
	// ID is an auto-incrementing sequence number
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TripID references the owning trip
	TripID string `gorm:"column:trip_id;not null;index;type:varchar(36)"`
	// RouteData is the JSON array of route points
	RouteData datatypes.JSON `gorm:"column:route_data;type:jsonb"`
	// DistanceKM is the total route distance
	DistanceKM float64 `gorm:"column:distance_km;type:numeric(8,2)"`
	// TimeMinutes is the estimated travel time
	TimeMinutes int `gorm:"column:time_minutes"`
	// RouteSource names the engine that produced the route
	RouteSource string `gorm:"column:route_source;type:varchar(50)"`
	// CalculatedAt is when the route was computed
	CalculatedAt time.Time `gorm:"column:calculated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TripRoute model
func (TripRoute) TableName() string {
	return "trip_routes"
}
