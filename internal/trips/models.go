package trips

import (
	"time"

	"github.com/google/uuid"
)

// Route is a fixed origin/destination pair with a base fare.
// Fares are stored in minor currency units (kobo/cents) to avoid float drift.
type Route struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Origin          string    `json:"origin" gorm:"not null;size:255"`
	Destination     string    `json:"destination" gorm:"not null;size:255"`
	BaseFare        int64     `json:"base_fare" gorm:"not null;check:base_fare >= 0"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Bus is a vehicle in the fleet. Capacity drives the seat map size.
type Bus struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PlateNumber string    `json:"plate_number" gorm:"uniqueIndex;not null;size:32"`
	Model       string    `json:"model" gorm:"size:128"`
	Capacity    int       `json:"capacity" gorm:"not null;default:40;check:capacity > 0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Trip is one scheduled, dated departure of a bus along a route.
// Bookings reference trips immutably; trip lifecycle changes are out of the
// booking core's hands.
type Trip struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	RouteID       uuid.UUID  `json:"route_id" gorm:"type:uuid;index;not null"`
	BusID         *uuid.UUID `json:"bus_id" gorm:"type:uuid;index"`
	TravelDate    time.Time  `json:"travel_date" gorm:"not null;index"`
	DepartureTime string     `json:"departure_time" gorm:"size:8;not null"`
	ArrivalTime   string     `json:"arrival_time" gorm:"size:8"`
	Status        Status     `json:"status" gorm:"type:varchar(20);default:'scheduled'"`
	// Fare overrides the route base fare when set (minor units).
	Fare *int64 `json:"fare,omitempty"`

	Route *Route `json:"route,omitempty" gorm:"foreignKey:RouteID"`
	Bus   *Bus   `json:"bus,omitempty" gorm:"foreignKey:BusID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Route) TableName() string {
	return "routes"
}

func (Bus) TableName() string {
	return "buses"
}

func (Trip) TableName() string {
	return "trips"
}

// TripResponse is the API shape for a trip with fare preview data.
type TripResponse struct {
	ID            string    `json:"id"`
	RouteID       string    `json:"route_id"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	TravelDate    time.Time `json:"travel_date"`
	DepartureTime string    `json:"departure_time"`
	ArrivalTime   string    `json:"arrival_time"`
	Status        Status    `json:"status"`
	FarePerSeat   int64     `json:"fare_per_seat"`
	Capacity      int       `json:"capacity"`
	BusPlate      string    `json:"bus_plate,omitempty"`
}

// TripListQuery carries list filters for trips.
type TripListQuery struct {
	RouteID string `form:"route_id"`
	Date    string `form:"date"`
	Status  string `form:"status"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}
