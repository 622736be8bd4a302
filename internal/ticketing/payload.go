// Package ticketing submits complaint payloads to the municipal incidents
// API and interprets the responses.
package ticketing

import (
	"github.com/motis10/muninet/internal/profile"
)

// Routing carries the fixed municipal routing fields every incident payload
// ships with. They are deployment configuration, not business logic.
type Routing struct {
	EventCallSourceID int    `json:"-" env:"MUNINET_EVENT_CALL_SOURCE_ID" envDefault:"4"`
	CityCode          string `json:"-" env:"MUNINET_CITY_CODE" envDefault:"7400"`
	CityDesc          string `json:"-" env:"MUNINET_CITY_DESC" envDefault:"נתניה"`
	EventCallCenterID string `json:"-" env:"MUNINET_EVENT_CALL_CENTER_ID" envDefault:"3"`
	StreetCode        string `json:"-" env:"MUNINET_STREET_CODE" envDefault:"898"`
	StreetDesc        string `json:"-" env:"MUNINET_STREET_DESC" envDefault:"קרל פופר"`
	ContactUsType     string `json:"-" env:"MUNINET_CONTACT_US_TYPE" envDefault:"3"`
}

// DefaultRouting returns the routing constants for the Netanya deployment.
func DefaultRouting() Routing {
	return Routing{
		EventCallSourceID: 4,
		CityCode:          "7400",
		CityDesc:          "נתניה",
		EventCallCenterID: "3",
		StreetCode:        "898",
		StreetDesc:        "קרל פופר",
		ContactUsType:     "3",
	}
}

// Payload is the incident creation request body. Field names follow the
// municipal API's wire format.
type Payload struct {
	EventCallSourceID int    `json:"eventCallSourceId"`
	CityCode          string `json:"cityCode"`
	CityDesc          string `json:"cityDesc"`
	EventCallCenterID string `json:"eventCallCenterId"`
	EventCallDesc     string `json:"eventCallDesc"`
	StreetCode        string `json:"streetCode"`
	StreetDesc        string `json:"streetDesc"`
	HouseNumber       string `json:"houseNumber"`
	CallerFirstName   string `json:"callerFirstName"`
	CallerLastName    string `json:"callerLastName"`
	CallerTZ          string `json:"callerTZ"`
	CallerPhone1      string `json:"callerPhone1"`
	CallerEmail       string `json:"callerEmail"`
	ContactUsType     string `json:"contactUsType"`
}

// BuildPayload combines the routing constants with the caller's profile, the
// complaint description and the selected house number.
func BuildPayload(routing Routing, caller profile.ContactProfile, description, houseNumber string) Payload {
	return Payload{
		EventCallSourceID: routing.EventCallSourceID,
		CityCode:          routing.CityCode,
		CityDesc:          routing.CityDesc,
		EventCallCenterID: routing.EventCallCenterID,
		EventCallDesc:     description,
		StreetCode:        routing.StreetCode,
		StreetDesc:        routing.StreetDesc,
		HouseNumber:       houseNumber,
		CallerFirstName:   caller.FirstName,
		CallerLastName:    caller.LastName,
		CallerTZ:          caller.NationalID,
		CallerPhone1:      caller.Phone,
		CallerEmail:       caller.Email,
		ContactUsType:     routing.ContactUsType,
	}
}
