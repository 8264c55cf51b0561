package helpers

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"time"

	"golang-physiobackend/models"
)

const accessCodeLength = 8

// AccessCode derives the short URL-safe patient code from the name and a
// second-resolution timestamp. Two calls for the same name within the same
// second collide, so never use this alone: UniqueAccessCode checks the
// result against the live store contents.
func AccessCode(patientName string, ts time.Time) string {
	raw := patientName + ts.Format("20060102150405")
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])[:accessCodeLength]
}

// UniqueAccessCode regenerates until the code is free in the given
// collection. Hash entropy alone is not a uniqueness guarantee.
func UniqueAccessCode(patientName string, ts time.Time, records map[string]models.PatientRecord) string {
	code := AccessCode(patientName, ts)
	for offset := 1; ; offset++ {
		if _, taken := records[code]; !taken {
			return code
		}
		code = AccessCode(patientName, ts.Add(time.Duration(offset)*time.Second))
	}
}

// PatientLink builds the shareable URL: base plus the paziente query
// parameter carrying the access code.
func PatientLink(baseURL, code string) string {
	return baseURL + "?paziente=" + url.QueryEscape(code)
}
