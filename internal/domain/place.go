package domain

// Category of a point of interest in the place catalog.
type PlaceType string

const (
	PlaceHotel      PlaceType = "HOTEL"
	PlaceRestaurant PlaceType = "RESTAURANT"
	PlaceThingToDo  PlaceType = "THING-TO-DO"
)

// Represents a point of interest that can be added to a trip.
// Places are owned by the catalog; trips only reference them.
type Place struct {
	PlaceID  string
	Name     string
	Type     PlaceType
	Location Coordinates
}
