package helpers

import (
	"testing"
	"time"

	"golang-physiobackend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessCodeShape(t *testing.T) {
	ts := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	code := AccessCode("Mario Rossi", ts)

	assert.Len(t, code, 8)
	assert.Regexp(t, "^[0-9a-f]{8}$", code)

	// Deterministic within the same second: the collision the uniqueness
	// check exists for.
	assert.Equal(t, code, AccessCode("Mario Rossi", ts))
	assert.NotEqual(t, code, AccessCode("Mario Rossi", ts.Add(time.Second)))
	assert.NotEqual(t, code, AccessCode("Anna Bianchi", ts))
}

func TestUniqueAccessCodeRegeneratesOnCollision(t *testing.T) {
	ts := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	taken := AccessCode("Mario Rossi", ts)
	records := map[string]models.PatientRecord{
		taken: {AccessCode: taken},
	}

	code := UniqueAccessCode("Mario Rossi", ts, records)
	require.NotEqual(t, taken, code)
	assert.Equal(t, AccessCode("Mario Rossi", ts.Add(time.Second)), code)
}

func TestUniqueAccessCodeWithoutCollision(t *testing.T) {
	ts := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	code := UniqueAccessCode("Mario Rossi", ts, map[string]models.PatientRecord{})
	assert.Equal(t, AccessCode("Mario Rossi", ts), code)
}

func TestPatientLink(t *testing.T) {
	link := PatientLink("https://studio.example.com", "ab12cd34")
	assert.Equal(t, "https://studio.example.com?paziente=ab12cd34", link)
}
