package store

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang-physiobackend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() models.PatientRecord {
	created, _ := time.Parse("02/01/2006 15:04", "05/06/2025 09:30")
	d1, _ := models.ParseDay("05/06/2025")
	d2, _ := models.ParseDay("06/06/2025")
	return models.PatientRecord{
		AccessCode:  "ab12cd34",
		PatientName: "Mario Rossi",
		VisitReason: "lombalgia",
		CreatedAt:   created,
		Exercises: []models.PrescribedExercise{
			{Name: "Ponte glutei", Description: "Solleva il bacino", DemoLink: "https://youtu.be/x", Difficulty: "media", Region: "schiena", Sets: 3, Reps: 12},
			{Name: "Plank", Description: "Tieni la posizione", Region: "generale", Sets: 3, Reps: 30},
		},
		Completed: map[string]bool{"Plank": true},
		Notes:     map[string]string{"Plank": "faticoso ma và meglio"},
		History:   map[string][]models.Day{"Plank": {d1, d2}},
		Videos: map[string][]models.VideoSubmission{
			"Plank": {{OriginalFilename: "plank.mp4", StorageKey: "recordings/ab12cd34/Plank/1.mp4", SizeMB: 12.5}},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := map[string]models.PatientRecord{"ab12cd34": sampleRecord()}

	payload, err := EncodeRecords(original)
	require.NoError(t, err)

	decoded, err := DecodeRecords(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, original["ab12cd34"], decoded["ab12cd34"])
}

func TestEncodeKeepsNonASCII(t *testing.T) {
	payload, err := EncodeRecords(map[string]models.PatientRecord{"ab12cd34": sampleRecord()})
	require.NoError(t, err)

	text := string(payload)
	assert.Contains(t, text, "difficoltà")
	assert.Contains(t, text, "và meglio")
	assert.NotContains(t, text, `\u00e0`, "accented characters must not be escaped")
}

func TestDecodeEmptyPayload(t *testing.T) {
	for _, payload := range [][]byte{nil, {}, []byte("  \n")} {
		records, err := DecodeRecords(payload)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestDecodeRecoversMalformedSubDocument(t *testing.T) {
	good := sampleRecord()
	payload, err := EncodeRecords(map[string]models.PatientRecord{good.AccessCode: good})
	require.NoError(t, err)

	var rows []recordRow
	require.NoError(t, json.Unmarshal(payload, &rows))
	require.Len(t, rows, 1)
	rows[0].History = `{"Plank": [not json`
	corrupted, err := json.Marshal(rows)
	require.NoError(t, err)

	decoded, err := DecodeRecords(corrupted)
	require.NoError(t, err)
	rec, ok := decoded[good.AccessCode]
	require.True(t, ok, "the row itself must survive")

	// Only the corrupt field falls back to its empty default.
	assert.Empty(t, rec.History)
	assert.Equal(t, good.Exercises, rec.Exercises)
	assert.Equal(t, good.Notes, rec.Notes)
	assert.Equal(t, good.Completed, rec.Completed)
}

func TestDecodeSkipsRowsWithoutCode(t *testing.T) {
	payload := []byte(`[{"code":"","patient_name":"ghost"},{"code":"ok123456","patient_name":"Anna"}]`)
	decoded, err := DecodeRecords(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "Anna", decoded["ok123456"].PatientName)
}

func TestDecodeWholePayloadCorrupt(t *testing.T) {
	records, err := DecodeRecords([]byte("this is not json"))
	assert.Error(t, err)
	assert.Empty(t, records)
}

func TestEncodeOrdersRowsByCode(t *testing.T) {
	a := sampleRecord()
	a.AccessCode = "aaaaaaaa"
	z := sampleRecord()
	z.AccessCode = "zzzzzzzz"
	payload, err := EncodeRecords(map[string]models.PatientRecord{z.AccessCode: z, a.AccessCode: a})
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(payload), "aaaaaaaa"), strings.Index(string(payload), "zzzzzzzz"))
}
