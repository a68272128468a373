package jsonfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurnalku/jurnalku/internal/journal"
	"github.com/jurnalku/jurnalku/internal/models"
)

type testRecord struct {
	ID        string    `json:"id"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *testRecord) RecordID() string {
	return r.ID
}

func (r *testRecord) Touch(now time.Time) {
	r.UpdatedAt = now
}

func (r *testRecord) Clone() *testRecord {
	clone := *r
	return &clone
}

func testFileName(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "collection_test.json")
}

func TestBootstrapsMissingFile(t *testing.T) {
	fileName := testFileName(t)

	collection, err := New[*testRecord](fileName)
	require.NoError(t, err)
	require.NotNil(t, collection)

	assert.Equal(t, 0, collection.Len())
	assert.FileExists(t, fileName)
}

func TestUnparsableFileIsAnError(t *testing.T) {
	fileName := testFileName(t)
	require.NoError(t, os.WriteFile(fileName, []byte(`{"not": "an array"`), 0644))

	_, err := New[*testRecord](fileName)
	assert.Error(t, err)
}

func TestInsertUpdateRemove(t *testing.T) {
	collection, err := New[*testRecord](testFileName(t))
	require.NoError(t, err)

	require.NoError(t, collection.Insert(&testRecord{ID: "id_1_1", Value: "first"}))
	require.NoError(t, collection.Insert(&testRecord{ID: "id_1_2", Value: "second"}))
	assert.Equal(t, 2, collection.Len())
	assert.Equal(t, []string{"id_1_1", "id_1_2"}, collection.IDs())

	updated, err := collection.Update("id_1_1", func(record *testRecord) error {
		record.Value = "patched"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "patched", updated.Value)
	assert.False(t, updated.UpdatedAt.IsZero())

	_, err = collection.Update("id_1_99", func(record *testRecord) error { return nil })
	assert.ErrorIs(t, err, models.ErrNotFound)

	removed, err := collection.Remove("id_1_2")
	require.NoError(t, err)
	assert.Equal(t, "second", removed.Value)
	assert.Equal(t, 1, collection.Len())

	_, err = collection.Remove("id_1_2")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFind(t *testing.T) {
	collection, err := New[*testRecord](testFileName(t))
	require.NoError(t, err)

	require.NoError(t, collection.Insert(&testRecord{ID: "id_1_1", Value: "here"}))

	record, found := collection.Find("id_1_1")
	require.True(t, found)
	assert.Equal(t, "here", record.Value)

	_, found = collection.Find("id_1_2")
	assert.False(t, found)
}

func TestRoundTripDurability(t *testing.T) {
	fileName := testFileName(t)

	collection, err := New[*journal.Entry](fileName)
	require.NoError(t, err)

	now := time.Now().Truncate(time.Second)
	entry := &journal.Entry{
		ID:              "id_1700000000000_1",
		UserID:          "id_1700000000000_2",
		Catatan:         "felt okay",
		Mood:            "neutral",
		Aktivitas:       []string{"walking"},
		DetailAktivitas: map[string]string{"walking": "30 minutes"},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, collection.Insert(entry))

	// Simulated restart: reload the collection from the same file.
	reloaded, err := New[*journal.Entry](fileName)
	require.NoError(t, err)

	loaded, found := reloaded.Find("id_1700000000000_1")
	require.True(t, found)
	assert.Equal(t, "felt okay", loaded.Catatan)
	assert.Equal(t, "neutral", loaded.Mood)
	assert.Equal(t, []string{"walking"}, loaded.Aktivitas)
	assert.Equal(t, map[string]string{"walking": "30 minutes"}, loaded.DetailAktivitas)
	assert.True(t, now.Equal(loaded.CreatedAt))
}

func TestInsertionOrderIsPreserved(t *testing.T) {
	fileName := testFileName(t)

	collection, err := New[*testRecord](fileName)
	require.NoError(t, err)

	for _, id := range []string{"id_1_3", "id_1_1", "id_1_2"} {
		require.NoError(t, collection.Insert(&testRecord{ID: id}))
	}

	reloaded, err := New[*testRecord](fileName)
	require.NoError(t, err)
	assert.Equal(t, []string{"id_1_3", "id_1_1", "id_1_2"}, reloaded.IDs())
}

func TestAllReturnsACopy(t *testing.T) {
	collection, err := New[*testRecord](testFileName(t))
	require.NoError(t, err)

	require.NoError(t, collection.Insert(&testRecord{ID: "id_1_1"}))

	records := collection.All()
	records[0] = nil

	_, found := collection.Find("id_1_1")
	assert.True(t, found)
}

func TestResultsDoNotAliasStoredState(t *testing.T) {
	collection, err := New[*testRecord](testFileName(t))
	require.NoError(t, err)

	inserted := &testRecord{ID: "id_1_1", Value: "original"}
	require.NoError(t, collection.Insert(inserted))

	// Mutating the caller's instance after Insert must not leak in.
	inserted.Value = "mutated after insert"

	found, ok := collection.Find("id_1_1")
	require.True(t, ok)
	assert.Equal(t, "original", found.Value)

	// Mutating a returned record must not leak in either.
	found.Value = "mutated after find"
	fromAll := collection.All()
	require.Len(t, fromAll, 1)
	assert.Equal(t, "original", fromAll[0].Value)

	fromAll[0].Value = "mutated after all"
	again, ok := collection.Find("id_1_1")
	require.True(t, ok)
	assert.Equal(t, "original", again.Value)
}

func TestInsertIf(t *testing.T) {
	collection, err := New[*testRecord](testFileName(t))
	require.NoError(t, err)

	duplicateValue := func(value string) func(records []*testRecord) error {
		return func(records []*testRecord) error {
			for _, record := range records {
				if record.Value == value {
					return models.ErrEmailTaken
				}
			}
			return nil
		}
	}

	require.NoError(t, collection.InsertIf(&testRecord{ID: "id_1_1", Value: "a@example.com"}, duplicateValue("a@example.com")))

	err = collection.InsertIf(&testRecord{ID: "id_1_2", Value: "a@example.com"}, duplicateValue("a@example.com"))
	assert.ErrorIs(t, err, models.ErrEmailTaken)
	assert.Equal(t, 1, collection.Len())
}

func TestUpdateMutatorErrorLeavesRecordUntouched(t *testing.T) {
	collection, err := New[*testRecord](testFileName(t))
	require.NoError(t, err)

	require.NoError(t, collection.Insert(&testRecord{ID: "id_1_1", Value: "original"}))

	_, err = collection.Update("id_1_1", func(record *testRecord) error {
		record.Value = "half-applied"
		return models.ErrValidation
	})
	require.ErrorIs(t, err, models.ErrValidation)

	kept, ok := collection.Find("id_1_1")
	require.True(t, ok)
	assert.Equal(t, "original", kept.Value)
	assert.True(t, kept.UpdatedAt.IsZero())
}
