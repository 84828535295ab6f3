package models

import (
	"encoding/json"
	"fmt"
)

// PlanItemType discriminates the payload carried by a PlanItem.
type PlanItemType string

const (
	PlanItemPlace     PlanItemType = "place"
	PlanItemTransport PlanItemType = "transport"
)

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlanContent is the strict itinerary schema every AI response is coerced
// into before persistence.
type PlanContent struct {
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	Days            []PlanDay `json:"days"`
	Recommendations []string  `json:"recommendations"`
}

// PlanDay is one calendar day of the itinerary.
type PlanDay struct {
	Date  string     `json:"date"`
	Items []PlanItem `json:"items"`
}

// PlanItem is a single scheduled entry. Data holds a PlanPlace or a
// PlanTransport matching Type; the variant is discriminated exactly once,
// at the normalization boundary.
type PlanItem struct {
	Time string       `json:"time"`
	Type PlanItemType `json:"type"`
	Data PlanItemData `json:"data"`
}

// PlanItemData is the tagged-union payload of a PlanItem.
type PlanItemData interface {
	planItemData()
}

// PlanPlace describes an attraction visit.
type PlanPlace struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Address       *string   `json:"address,omitempty"`
	OpeningHours  *string   `json:"opening_hours,omitempty"`
	VisitDuration int       `json:"visit_duration"`
	Coordinates   *GeoPoint `json:"coordinates,omitempty"`
}

// PlanTransport describes a leg between attractions. Duration is minutes.
type PlanTransport struct {
	Type             string    `json:"type"`
	Duration         int       `json:"duration"`
	Distance         *float64  `json:"distance,omitempty"`
	StartCoordinates *GeoPoint `json:"start_coordinates,omitempty"`
	EndCoordinates   *GeoPoint `json:"end_coordinates,omitempty"`
}

func (*PlanPlace) planItemData()     {}
func (*PlanTransport) planItemData() {}

// UnmarshalJSON decodes the data payload into the variant named by the type
// tag. Content read back from the database goes through here.
func (i *PlanItem) UnmarshalJSON(b []byte) error {
	var raw struct {
		Time string          `json:"time"`
		Type PlanItemType    `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	i.Time = raw.Time
	i.Type = raw.Type

	switch raw.Type {
	case PlanItemTransport:
		var t PlanTransport
		if len(raw.Data) > 0 {
			if err := json.Unmarshal(raw.Data, &t); err != nil {
				return fmt.Errorf("plan item transport payload: %w", err)
			}
		}
		i.Data = &t
	case PlanItemPlace:
		var p PlanPlace
		if len(raw.Data) > 0 {
			if err := json.Unmarshal(raw.Data, &p); err != nil {
				return fmt.Errorf("plan item place payload: %w", err)
			}
		}
		i.Data = &p
	default:
		return fmt.Errorf("unknown plan item type %q", raw.Type)
	}
	return nil
}
