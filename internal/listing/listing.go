package listing

import (
	"strings"

	"github.com/avstrong/stayhub/internal/account"
	"github.com/avstrong/stayhub/internal/validation"
)

const (
	minTitleLength               = 5
	minDescriptionLength         = 20
	minLocationDescriptionLength = 10
	minCapacity                  = 1
	maxCapacity                  = 20
	maxLatitude                  = 90
	maxLongitude                 = 180
)

// Form is the host's accommodation form, used both to publish and to edit a
// listing. The backend accepts it as is.
type Form struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Capacity            int      `json:"capacity"`
	City                string   `json:"city"`
	LocationDescription string   `json:"locationDescription"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	PricePerNight       float64  `json:"pricePerNight"`
	MainImage           string   `json:"mainImage"`
	Images              []string `json:"images"`
	AmenityIDs          []int64  `json:"amenityIds"`
}

func minLength(s string, n int) bool {
	return len([]rune(strings.TrimSpace(s))) >= n
}

// Validate reports every failing field at once.
func (f Form) Validate() validation.Errors {
	errs := validation.New()

	if !minLength(f.Title, minTitleLength) {
		errs.Add("title", "title must be at least 5 characters")
	}

	if !minLength(f.Description, minDescriptionLength) {
		errs.Add("description", "description must be at least 20 characters")
	}

	if f.Capacity < minCapacity || f.Capacity > maxCapacity {
		errs.Add("capacity", "capacity must be between 1 and 20 guests")
	}

	if strings.TrimSpace(f.City) == "" {
		errs.Add("city", "select a city")
	}

	if !minLength(f.LocationDescription, minLocationDescriptionLength) {
		errs.Add("locationDescription", "describe the location in at least 10 characters")
	}

	if f.Latitude < -maxLatitude || f.Latitude > maxLatitude {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}

	if f.Longitude < -maxLongitude || f.Longitude > maxLongitude {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}

	if !(f.PricePerNight > 0) {
		errs.Add("pricePerNight", "price must be greater than 0")
	}

	if f.MainImage == "" || !account.IsValidURL(f.MainImage) {
		errs.Add("mainImage", "provide a valid URL for the main image")
	}

	for _, image := range f.Images {
		if !account.IsValidURL(image) {
			errs.Add("images", "every image must be a valid URL")
		}
	}

	return errs
}
