package models

import "strings"

// Travel types shared by itinerary tags and family preferences
var TravelTypes = []string{
	"Aventure",
	"Culture",
	"Détente",
	"Nature",
	"Plage",
	"Montagne",
	"Gastronomie",
	"Sport",
	"Ville",
	"Parc d'attractions",
}

// Budgets are the accepted budget bands
var Budgets = []string{"Économique", "Modéré", "Confort", "Luxe"}

// AccommodationTypes are the accepted accommodation kinds
var AccommodationTypes = []string{"Hôtel", "Location", "Camping", "Gîte", "Club de vacances"}

// TravelPaces are the accepted travel paces
var TravelPaces = []string{"Tranquille", "Modéré", "Soutenu"}

// Vocabulary groups the closed value sets
type Vocabulary struct {
	TravelTypes        []string `json:"travel_types"`
	Budgets            []string `json:"budgets"`
	AccommodationTypes []string `json:"accommodation_types"`
	TravelPaces        []string `json:"travel_paces"`
}

// DefaultVocabulary returns a copy of the built-in value sets
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		TravelTypes:        append([]string(nil), TravelTypes...),
		Budgets:            append([]string(nil), Budgets...),
		AccommodationTypes: append([]string(nil), AccommodationTypes...),
		TravelPaces:        append([]string(nil), TravelPaces...),
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// IsTravelType reports whether v is a known travel type
func IsTravelType(v string) bool { return contains(TravelTypes, v) }

// IsBudget reports whether v is a known budget band
func IsBudget(v string) bool { return contains(Budgets, v) }

// IsAccommodationType reports whether v is a known accommodation type
func IsAccommodationType(v string) bool { return contains(AccommodationTypes, v) }

// IsTravelPace reports whether v is a known travel pace
func IsTravelPace(v string) bool { return contains(TravelPaces, v) }

// NormalizeTags trims and deduplicates tags, keeping first-seen order.
// The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTagList splits a comma-separated tag list
func ParseTagList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(raw, ","))
}
