// Package notify is the outbound notification boundary. Failures here are
// never allowed to block a record mutation.
package notify

import "log"

// Notifier is implemented by whatever delivers messages to the therapist
// (email, messaging). The core only calls it after the primary mutation has
// been persisted.
type Notifier interface {
	PatientCreated(patientName, accessCode string)
	VideoSubmitted(patientName, exercise, filename string)
}

// LogNotifier writes notifications to the process log; the default until a
// real channel is configured.
type LogNotifier struct{}

func (LogNotifier) PatientCreated(patientName, accessCode string) {
	log.Printf("notify: program created for %s (code %s)", patientName, accessCode)
}

func (LogNotifier) VideoSubmitted(patientName, exercise, filename string) {
	log.Printf("notify: %s submitted video %s for %s", patientName, filename, exercise)
}
