// Package journal defines the journal entry record persisted in the journals collection.
package journal

import "time"

// Entry is a single mood-journal record owned by exactly one user.
// Aktivitas and DetailAktivitas are never nil: empty containers are stored
// so that the JSON on disk and on the wire stays `[]`/`{}` rather than null.
type Entry struct {
	ID              string            `json:"id"`
	UserID          string            `json:"userId"`
	Catatan         string            `json:"catatan"`
	Mood            string            `json:"mood"`
	Aktivitas       []string          `json:"aktivitas"`
	DetailAktivitas map[string]string `json:"detailAktivitas"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// RecordID returns the stable identifier used by the persistent collection.
func (e *Entry) RecordID() string {
	return e.ID
}

// Touch stamps the last-update timestamp; called by the collection on every mutation.
func (e *Entry) Touch(now time.Time) {
	e.UpdatedAt = now
}

// Clone returns an independent copy, duplicating the activity containers so
// neither side can see the other's later mutations.
func (e *Entry) Clone() *Entry {
	clone := *e
	clone.Aktivitas = append([]string{}, e.Aktivitas...)
	clone.DetailAktivitas = make(map[string]string, len(e.DetailAktivitas))
	for key, value := range e.DetailAktivitas {
		clone.DetailAktivitas[key] = value
	}

	return &clone
}
