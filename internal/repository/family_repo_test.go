package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familytrips/internal/models"
)

func TestFamilyCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFamilyRepository(db)

	bd := models.NewDate(2016, 4, 12)
	members := []models.FamilyMember{
		{FirstName: "Paul", LastName: "Martin", Role: models.RoleAdult},
		{FirstName: "Zoé", LastName: "Martin", Role: models.RoleChild, BirthDate: &bd},
	}
	pref := models.DefaultPreference(0).Merge(models.PreferenceUpdate{TravelType: &[]string{"Nature"}})

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO families (device_id, name) VALUES ($1, $2)")).
		WithArgs("device-1", "Famille Martin").
		WillReturnRows(sqlmock.NewRows(familyCols).AddRow(int64(1), "device-1", "Famille Martin", testTime, testTime))
	mock.ExpectQuery("INSERT INTO family_members").
		WithArgs(int64(1), "Paul", "Martin", "Adult", nil, "").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow(int64(10), int64(1), "Paul", "Martin", "Adult", nil, "", testTime, testTime))
	mock.ExpectQuery("INSERT INTO family_members").
		WithArgs(int64(1), "Zoé", "Martin", "Child", "2016-04-12", "").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow(int64(11), int64(1), "Zoé", "Martin", "Child", bd.Time, "", testTime, testTime))
	mock.ExpectQuery("INSERT INTO preferences").
		WithArgs(int64(1), tagsArg{"Nature"}, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(preferenceCols).AddRow(int64(1), "{Nature}", nil, nil, nil, int64(1), testTime))
	mock.ExpectCommit()

	profile, err := repo.Create(context.Background(), "device-1", "Famille Martin", members, pref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	require.Len(t, profile.Members, 2)
	require.NotNil(t, profile.Members[1].BirthDate)
	assert.Equal(t, "2016-04-12", profile.Members[1].BirthDate.String())
	assert.Equal(t, []string{"Nature"}, profile.Preference.Tags())
	assert.Equal(t, int64(1), profile.Preference.Version)
}

func TestFamilyCreateDuplicateDevice(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFamilyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO families").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), "device-1", "Famille Martin", nil, models.DefaultPreference(0))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestFamilyGetByDeviceID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFamilyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM families WHERE device_id = $1")).
		WithArgs("device-1").
		WillReturnRows(sqlmock.NewRows(familyCols).AddRow(int64(1), "device-1", "Famille Martin", testTime, testTime))
	mock.ExpectQuery(regexp.QuoteMeta("FROM families WHERE device_id = $1")).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows(familyCols))

	f, err := repo.GetByDeviceID(context.Background(), "device-1")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "Famille Martin", f.Name)

	missing, err := repo.GetByDeviceID(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFamilyUpdateProfile(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFamilyRepository(db)

	name := "Les Martin"
	pace := "Soutenu"
	version := int64(2)
	upd := models.ProfileUpdate{
		Name: &name,
		Preferences: &models.PreferenceUpdate{
			TravelPace: &pace,
			Version:    &version,
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM families WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(familyCols).AddRow(int64(1), "device-1", "Famille Martin", testTime, testTime))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE families SET name = $1")).
		WithArgs("Les Martin", int64(1)).
		WillReturnRows(sqlmock.NewRows(familyCols).AddRow(int64(1), "device-1", "Les Martin", testTime, testTime))
	mock.ExpectQuery("FROM preferences WHERE family_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(preferenceCols).AddRow(int64(1), "{Aventure}", "Modéré", nil, nil, int64(2), testTime))
	mock.ExpectQuery("INSERT INTO preferences").
		WithArgs(int64(1), tagsArg{"Aventure"}, "Modéré", nil, "Soutenu").
		WillReturnRows(sqlmock.NewRows(preferenceCols).AddRow(int64(1), "{Aventure}", "Modéré", nil, "Soutenu", int64(3), testTime))
	mock.ExpectQuery("FROM family_members WHERE family_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(memberCols))
	mock.ExpectQuery("FROM preferences WHERE family_id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(preferenceCols).AddRow(int64(1), "{Aventure}", "Modéré", nil, "Soutenu", int64(3), testTime))
	mock.ExpectCommit()

	profile, err := repo.UpdateProfile(context.Background(), 1, upd)
	require.NoError(t, err)
	assert.Equal(t, "Les Martin", profile.Name)
	assert.Empty(t, profile.Members)
	assert.Equal(t, int64(3), profile.Preference.Version)
	require.NotNil(t, profile.Preference.TravelPace)
	assert.Equal(t, "Soutenu", *profile.Preference.TravelPace)
}

func TestFamilyUpdateProfileStaleVersion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFamilyRepository(db)

	stale := int64(1)
	upd := models.ProfileUpdate{Preferences: &models.PreferenceUpdate{
		TravelType: &[]string{"Plage"},
		Version:    &stale,
	}}

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(familyCols).AddRow(int64(1), "device-1", "Famille Martin", testTime, testTime))
	mock.ExpectQuery("FROM preferences WHERE family_id").
		WillReturnRows(sqlmock.NewRows(preferenceCols).AddRow(int64(1), "{Aventure}", nil, nil, nil, int64(3), testTime))
	mock.ExpectRollback()

	_, err := repo.UpdateProfile(context.Background(), 1, upd)
	assert.ErrorIs(t, err, ErrStaleVersion)
}

func TestFamilyUpdateProfileMissingFamily(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFamilyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows(familyCols))
	mock.ExpectRollback()

	_, err := repo.UpdateProfile(context.Background(), 99, models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}
