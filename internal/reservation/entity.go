package reservation

import "github.com/avstrong/stayhub/internal/pricing"

// Form is the reservation form as the guest fills it in.
type Form struct {
	CheckInDate    string `json:"checkInDate"`
	CheckInTime    string `json:"checkInTime"`
	CheckOutDate   string `json:"checkOutDate"`
	CheckOutTime   string `json:"checkOutTime"`
	NumberOfGuests int    `json:"numberOfGuests"`
}

type Accommodation struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Capacity            int      `json:"capacity"`
	MainImage           string   `json:"mainImage"`
	Longitude           float64  `json:"longitude"`
	Latitude            float64  `json:"latitude"`
	LocationDescription string   `json:"locationDescription"`
	City                string   `json:"city"`
	PricePerNight       float64  `json:"pricePerNight"`
	Images              []string `json:"images"`
	HostName            string   `json:"hostName,omitempty"`
	HostID              int64    `json:"hostId,omitempty"`
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Request is the reservation payload accepted by the backend. Dates carry
// combined timestamps.
type Request struct {
	GuestID         int64  `json:"guestId"`
	AccommodationID int64  `json:"accommodationId"`
	CheckInDate     string `json:"checkInDate"`
	CheckOutDate    string `json:"checkOutDate"`
	NumberOfGuests  int    `json:"numberOfGuests"`
}

type Reservation struct {
	ID                 int64   `json:"id"`
	GuestID            int64   `json:"guestId"`
	AccommodationTitle string  `json:"accommodationTitle"`
	AccommodationID    int64   `json:"accommodationId"`
	CheckInDate        string  `json:"checkInDate"`
	CheckOutDate       string  `json:"checkOutDate"`
	NumberOfGuests     int     `json:"numberOfGuests"`
	TotalPrice         float64 `json:"totalPrice"`
	Status             Status  `json:"status"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

type Quote struct {
	AccommodationID int64         `json:"accommodationId"`
	CheckInDate     string        `json:"checkInDate"`
	CheckOutDate    string        `json:"checkOutDate"`
	NumberOfGuests  int           `json:"numberOfGuests"`
	Nights          int           `json:"nights"`
	NightlyRate     pricing.Money `json:"nightlyRate"`
	Total           pricing.Money `json:"total"`
	TotalDisplay    string        `json:"totalDisplay"`
}
