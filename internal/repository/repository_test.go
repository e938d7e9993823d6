package repository

import (
	"database/sql/driver"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"familytrips/internal/database"
)

func newMock(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return database.New(conn), mock
}

// tagsArg matches a text[] parameter against the expected tags
type tagsArg []string

func (a tagsArg) Match(v driver.Value) bool {
	var got pq.StringArray
	switch s := v.(type) {
	case string:
		if err := got.Scan(s); err != nil {
			return false
		}
	case []byte:
		if err := got.Scan(s); err != nil {
			return false
		}
	default:
		return false
	}
	if len(got) == 0 && len(a) == 0 {
		return true
	}
	return reflect.DeepEqual([]string(got), []string(a))
}

var (
	testTime       = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	familyCols     = []string{"id", "device_id", "name", "created_at", "updated_at"}
	memberCols     = []string{"id", "family_id", "first_name", "last_name", "role", "birth_date", "dietary_restrictions", "created_at", "updated_at"}
	preferenceCols = []string{"family_id", "travel_type", "budget", "accommodation_type", "travel_pace", "version", "updated_at"}
	itineraryCols  = []string{"id", "title", "description", "duration_days", "price", "image_url", "tags", "created_at", "updated_at"}
)
