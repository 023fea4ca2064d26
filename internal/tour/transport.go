package tour

import (
	"fmt"
	"strings"
)

// TransportType is the mode of transport a tour is planned for.
type TransportType string

const (
	TransportCar          TransportType = "Car"
	TransportTruck        TransportType = "Truck"
	TransportBicycle      TransportType = "Bicycle"
	TransportRoadBike     TransportType = "RoadBike"
	TransportMountainBike TransportType = "MountainBike"
	TransportEBicycle     TransportType = "EBicycle"
	TransportWalking      TransportType = "Walking"
	TransportHiking       TransportType = "Hiking"
	TransportWheelchair   TransportType = "Wheelchair"
)

// TransportTypes lists every transport type in declaration order.
var TransportTypes = []TransportType{
	TransportCar,
	TransportTruck,
	TransportBicycle,
	TransportRoadBike,
	TransportMountainBike,
	TransportEBicycle,
	TransportWalking,
	TransportHiking,
	TransportWheelchair,
}

var transportLabels = map[TransportType]string{
	TransportCar:          "Car",
	TransportTruck:        "Truck",
	TransportBicycle:      "Bicycle",
	TransportRoadBike:     "Road bike",
	TransportMountainBike: "Mountain bike",
	TransportEBicycle:     "E-bike",
	TransportWalking:      "Walking",
	TransportHiking:       "Hiking",
	TransportWheelchair:   "Wheelchair",
}

// Valid reports whether t is one of the known transport types.
func (t TransportType) Valid() bool {
	_, ok := transportLabels[t]
	return ok
}

// Label returns the English human-readable label. It doubles as the message
// key for localized labels.
func (t TransportType) Label() string {
	if l, ok := transportLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseTransportType matches s against the identifiers and the labels,
// ignoring case, spaces, dashes and underscores.
func ParseTransportType(s string) (TransportType, error) {
	key := normalizeTransportKey(s)
	for _, t := range TransportTypes {
		if normalizeTransportKey(string(t)) == key || normalizeTransportKey(t.Label()) == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown transport type %q", s)
}

func normalizeTransportKey(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
