package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familytrips/internal/validation"
)

func TestBackupExportImportRoundTrip(t *testing.T) {
	src := memCatalog{newMemStore()}
	src.addItinerary("A", 500, 4, "Aventure", "Nature")
	src.addItinerary("B", 300, 2, "Détente")

	exporter := NewBackupService(src)
	exporter.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	n, err := exporter.Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var doc CatalogBackup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, CatalogBackupVersion, doc.Version)
	require.Len(t, doc.Itineraries, 2)
	assert.Equal(t, []string{"Aventure", "Nature"}, doc.Itineraries[0].Tags)

	dst := memCatalog{newMemStore()}
	dst.addItinerary("old", 1, 1)
	imported, err := NewBackupService(dst).Import(context.Background(), &buf, true)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	all, err := dst.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(all))
	assert.Equal(t, doc.Itineraries[0].CreatedAt, all[0].CreatedAt)
}

func TestBackupImportRejectsInvalidEntries(t *testing.T) {
	dst := memCatalog{newMemStore()}
	doc := `{"version":"1.0","itineraries":[
		{"title":"ok","duration_days":2,"price":10,"tags":["Ville"]},
		{"title":"","duration_days":0,"price":10,"tags":["Ski"]}
	]}`

	_, err := NewBackupService(dst).Import(context.Background(), strings.NewReader(doc), false)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)

	fields := []string{}
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"itineraries[1].title", "itineraries[1].duration_days", "itineraries[1].tags[0]"}, fields)
	assert.Empty(t, dst.itineraries)
}

func TestBackupImportRejectsVersion(t *testing.T) {
	_, err := NewBackupService(memCatalog{newMemStore()}).
		Import(context.Background(), strings.NewReader(`{"version":"2.0","itineraries":[]}`), false)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "version", verr.Errors[0].Field)
}

func TestBackupImportMalformed(t *testing.T) {
	_, err := NewBackupService(memCatalog{newMemStore()}).
		Import(context.Background(), strings.NewReader(`{not json`), false)
	assert.ErrorContains(t, err, "failed to decode backup")
}

func TestBackupFiles(t *testing.T) {
	src := memCatalog{newMemStore()}
	src.addItinerary("A", 500, 4, "Aventure")
	path := filepath.Join(t.TempDir(), "catalog.json")

	n, err := NewBackupService(src).ExportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	dst := memCatalog{newMemStore()}
	n, err = NewBackupService(dst).ImportFile(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = NewBackupService(dst).ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), false)
	assert.Error(t, err)
}

func TestBackupExportFileFailureRemovesFile(t *testing.T) {
	src := memCatalog{newMemStore()}
	src.addItinerary("A", 500, 4, "Aventure")
	boom := errors.New("connection reset")
	src.failList = boom
	path := filepath.Join(t.TempDir(), "catalog.json")

	_, err := NewBackupService(src).ExportFile(context.Background(), path)
	require.ErrorIs(t, err, boom)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial export left on disk")
}
