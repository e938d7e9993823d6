package repository

import "github.com/lib/pq"

// stringArray converts a tag slice into a text[] parameter. A nil slice is sent as '{}'.
func stringArray(tags []string) pq.StringArray {
	if tags == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(tags)
}
