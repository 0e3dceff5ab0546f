package domain

// Represents a named location shown on the map.
// Areas are static and immutable after load; bins reference them by name.
type Area struct {
	Name     string
	Location Coordinates
}
