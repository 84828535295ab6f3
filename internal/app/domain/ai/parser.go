package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/vibetravels/backend/internal/app/models"
)

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ParseAIResponse coerces free-form AI output into the strict PlanContent
// schema. Missing or malformed optional fields are substituted with
// defaults; it only fails when no JSON object can be recovered at all.
func ParseAIResponse(raw string, note *models.Note) (*models.PlanContent, error) {
	parsed, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse AI response: %w", err)
	}

	content := &models.PlanContent{
		Title:           stringOr(parsed["title"], fmt.Sprintf("%d-day Trip Plan", note.Duration)),
		Summary:         stringOr(parsed["summary"], "A customized travel itinerary based on your preferences."),
		Days:            normalizeDays(parsed["days"], note),
		Recommendations: normalizeRecommendations(parsed["recommendations"]),
	}

	return content, nil
}

// extractJSON tries, in order: a ```json fenced block, the first
// brace-delimited object in the text, the whole text.
func extractJSON(raw string) (map[string]any, error) {
	candidate := raw
	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidate = raw[start : end+1]
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}
	return parsed, nil
}

func normalizeDays(rawDays any, note *models.Note) []models.PlanDay {
	days, _ := rawDays.([]any)

	// No usable days at all: synthesize one empty day per day of the trip.
	if len(days) == 0 {
		out := make([]models.PlanDay, note.Duration)
		for i := range out {
			out[i] = models.PlanDay{
				Date:  relativeDateString(i),
				Items: []models.PlanItem{},
			}
		}
		return out
	}

	out := make([]models.PlanDay, 0, len(days))
	for i, rawDay := range days {
		day, _ := rawDay.(map[string]any)
		out = append(out, models.PlanDay{
			Date:  stringOr(day["date"], relativeDateString(i)),
			Items: normalizeItems(day["items"]),
		})
	}
	return out
}

func normalizeItems(rawItems any) []models.PlanItem {
	items, ok := rawItems.([]any)
	if !ok {
		return []models.PlanItem{}
	}

	out := make([]models.PlanItem, 0, len(items))
	for _, rawItem := range items {
		item, _ := rawItem.(map[string]any)

		itemType := models.PlanItemPlace
		if tag, _ := item["type"].(string); tag == string(models.PlanItemTransport) {
			itemType = models.PlanItemTransport
		}

		data, _ := item["data"].(map[string]any)
		var payload models.PlanItemData
		if itemType == models.PlanItemTransport {
			payload = normalizeTransport(data)
		} else {
			payload = normalizePlace(data)
		}

		out = append(out, models.PlanItem{
			Time: stringOr(item["time"], "09:00"),
			Type: itemType,
			Data: payload,
		})
	}
	return out
}

func normalizePlace(data map[string]any) *models.PlanPlace {
	return &models.PlanPlace{
		Name:          stringOr(data["name"], "Unnamed location"),
		Description:   stringOr(data["description"], ""),
		Address:       stringPtr(data["address"]),
		OpeningHours:  stringPtr(data["opening_hours"]),
		VisitDuration: intOr(data["visit_duration"], 60),
		Coordinates:   geoPointPtr(data["coordinates"]),
	}
}

func normalizeTransport(data map[string]any) *models.PlanTransport {
	return &models.PlanTransport{
		Type:             stringOr(data["type"], "walking"),
		Duration:         intOr(data["duration"], 30),
		Distance:         floatPtr(data["distance"]),
		StartCoordinates: geoPointPtr(data["start_coordinates"]),
		EndCoordinates:   geoPointPtr(data["end_coordinates"]),
	}
}

func normalizeRecommendations(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// relativeDateString returns today's local date offset by dayOffset, as an
// ISO calendar date.
func relativeDateString(dayOffset int) string {
	return time.Now().AddDate(0, 0, dayOffset).Format("2006-01-02")
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func intOr(v any, fallback int) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return fallback
}

func floatPtr(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func geoPointPtr(v any) *models.GeoPoint {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	lat, latOK := m["lat"].(float64)
	lng, lngOK := m["lng"].(float64)
	if !latOK || !lngOK {
		return nil
	}
	return &models.GeoPoint{Lat: lat, Lng: lng}
}
