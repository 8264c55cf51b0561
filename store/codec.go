package store

import (
	"bytes"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"time"

	"golang-physiobackend/models"
)

// creationLayout matches the creation date the sheet has always carried.
const creationLayout = "02/01/2006 15:04"

// recordRow is the persisted shape of one patient: plain columns plus the
// JSON-encoded sub-documents of the historical sheet. Keeping the
// sub-documents as separate strings means one corrupt field costs only that
// field, never the row or the collection.
type recordRow struct {
	Code         string `json:"code"`
	PatientName  string `json:"patient_name"`
	VisitReason  string `json:"visit_reason"`
	CreationDate string `json:"creation_date"`
	Scheda       string `json:"scheda"`
	Progressi    string `json:"progressi"`
	Note         string `json:"note"`
	History      string `json:"history"`
	Videos       string `json:"videos"`
}

// encodeField marshals without HTML escaping so accented exercise names and
// free-text notes survive byte for byte.
func encodeField(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("store: could not encode field: %v", err)
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}

// EncodeRecords serializes the whole collection as an array of rows sorted
// by access code.
func EncodeRecords(records map[string]models.PatientRecord) ([]byte, error) {
	codes := make([]string, 0, len(records))
	for code := range records {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([]recordRow, 0, len(records))
	for _, code := range codes {
		rec := records[code]
		rows = append(rows, recordRow{
			Code:         rec.AccessCode,
			PatientName:  rec.PatientName,
			VisitReason:  rec.VisitReason,
			CreationDate: rec.CreatedAt.Format(creationLayout),
			Scheda:       encodeField(rec.Exercises),
			Progressi:    encodeField(rec.Completed),
			Note:         encodeField(rec.Notes),
			History:      encodeField(rec.History),
			Videos:       encodeField(rec.Videos),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeRecords parses a collection payload. A malformed sub-document is
// replaced with that field's empty default and logged; it never aborts the
// rest of the collection.
func DecodeRecords(payload []byte) (map[string]models.PatientRecord, error) {
	records := make(map[string]models.PatientRecord)
	if len(bytes.TrimSpace(payload)) == 0 {
		return records, nil
	}

	var rows []recordRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		return records, err
	}

	for _, row := range rows {
		if row.Code == "" {
			continue
		}
		rec := models.PatientRecord{
			AccessCode:  row.Code,
			PatientName: row.PatientName,
			VisitReason: row.VisitReason,
			Completed:   make(map[string]bool),
			Notes:       make(map[string]string),
			History:     make(map[string][]models.Day),
			Videos:      make(map[string][]models.VideoSubmission),
		}
		if created, err := time.Parse(creationLayout, row.CreationDate); err == nil {
			rec.CreatedAt = created
		}
		decodeField(row.Code, "scheda", row.Scheda, &rec.Exercises)
		decodeField(row.Code, "progressi", row.Progressi, &rec.Completed)
		decodeField(row.Code, "note", row.Note, &rec.Notes)
		decodeField(row.Code, "history", row.History, &rec.History)
		decodeField(row.Code, "videos", row.Videos, &rec.Videos)
		if rec.Completed == nil {
			rec.Completed = make(map[string]bool)
		}
		if rec.Notes == nil {
			rec.Notes = make(map[string]string)
		}
		if rec.History == nil {
			rec.History = make(map[string][]models.Day)
		}
		if rec.Videos == nil {
			rec.Videos = make(map[string][]models.VideoSubmission)
		}
		records[rec.AccessCode] = rec
	}
	return records, nil
}

// decodeField parses into a scratch value first so a malformed sub-document
// leaves dst at its empty default instead of half filled.
func decodeField[T any](code, name, raw string, dst *T) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	var parsed T
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("store: record %s has malformed %s field, using empty default: %v", code, name, err)
		return
	}
	*dst = parsed
}
