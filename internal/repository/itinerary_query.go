package repository

import (
	"strings"

	"familytrips/internal/models"
)

const itineraryColumns = "id, title, description, duration_days, price, image_url, tags, created_at, updated_at"

// itineraryWhere builds the filter conjunction. Clauses and arguments follow a fixed
// order: price bounds, duration bounds, explicit tag overlap, preference tag overlap.
func itineraryWhere(f models.ItineraryFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.MinPrice != nil {
		clauses = append(clauses, "price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.MinDuration != nil {
		clauses = append(clauses, "duration_days >= ?")
		args = append(args, *f.MinDuration)
	}
	if f.MaxDuration != nil {
		clauses = append(clauses, "duration_days <= ?")
		args = append(args, *f.MaxDuration)
	}
	if len(f.Tags) > 0 {
		clauses = append(clauses, "tags && ?::text[]")
		args = append(args, stringArray(f.Tags))
	}
	if len(f.PreferenceTags) > 0 {
		clauses = append(clauses, "tags && ?::text[]")
		args = append(args, stringArray(f.PreferenceTags))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildItineraryQuery returns the matcher query, newest first, with optional paging
func buildItineraryQuery(f models.ItineraryFilter) (string, []any) {
	where, args := itineraryWhere(f)

	var b strings.Builder
	b.WriteString("SELECT " + itineraryColumns + " FROM itineraries")
	b.WriteString(where)
	b.WriteString(" ORDER BY created_at DESC, id DESC")

	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}
	if f.Offset > 0 {
		b.WriteString(" OFFSET ?")
		args = append(args, f.Offset)
	}
	return b.String(), args
}

// buildItineraryCountQuery counts the rows matched by the same filter, ignoring paging
func buildItineraryCountQuery(f models.ItineraryFilter) (string, []any) {
	where, args := itineraryWhere(f)
	return "SELECT COUNT(*) FROM itineraries" + where, args
}
