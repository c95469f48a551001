package models

import "fmt"

type Location struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// DefaultLocation is used whenever the user's coordinate is unknown (San Francisco).
var DefaultLocation = Location{Lat: 37.7749, Lon: -122.4194}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}
