package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ornik8/incident-sync/internal/core/domain"
)

func newRecord(id, seq string) domain.IncidentRecord {
	return domain.IncidentRecord{
		ID:             id,
		SequenceNumber: seq,
		Status:         domain.StatusDraft,
		Payload: domain.IncidentPayload{
			Location: domain.Location{State: "Khartoum", Description: "Africa Street"},
			Driver:   domain.Driver{Name: "Osman"},
		},
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecordStore_PutThenGet(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(newFaultyKV(), nil, zerolog.Nop())

	stored, err := s.Put(ctx, newRecord("r1", "25/00001"))
	require.NoError(t, err)
	assert.False(t, stored.UpdatedAt.IsZero())

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "25/00001", got.SequenceNumber)
	assert.Equal(t, "Africa Street", got.Payload.Location.Description)
	assert.Equal(t, stored.UpdatedAt, got.UpdatedAt)
}

func TestRecordStore_PutIgnoresCallerUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(newFaultyKV(), nil, zerolog.Nop())
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = fixedClock(start)

	rec := newRecord("r1", "25/00001")
	rec.UpdatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	stored, err := s.Put(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Second), stored.UpdatedAt)
}

func TestRecordStore_PutReplacesById(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(newFaultyKV(), nil, zerolog.Nop())

	_, err := s.Put(ctx, newRecord("r1", "25/00001"))
	require.NoError(t, err)
	_, err = s.Put(ctx, newRecord("r2", "25/00002"))
	require.NoError(t, err)

	updated := newRecord("r1", "25/00001")
	updated.Status = domain.StatusApproved
	_, err = s.Put(ctx, updated)
	require.NoError(t, err)

	all := s.GetAll(ctx)
	require.Len(t, all, 2)
	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
}

func TestRecordStore_PutRequiresID(t *testing.T) {
	s := NewRecordStore(newFaultyKV(), nil, zerolog.Nop())

	_, err := s.Put(context.Background(), newRecord("  ", "25/00001"))
	assert.ErrorIs(t, err, domain.ErrMissingID)
}

func TestRecordStore_WriteFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := newFaultyKV()
	notifier := &recordingNotifier{}
	s := NewRecordStore(kv, notifier, zerolog.Nop())

	_, err := s.Put(ctx, newRecord("r1", "25/00001"))
	require.NoError(t, err)

	kv.failSet = true
	_, err = s.Put(ctx, newRecord("r2", "25/00002"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, errDiskFull)

	var pe *domain.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, IncidentsKey, pe.Key)

	kv.failSet = false
	all := s.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "r1", all[0].ID)
	assert.Equal(t, []string{"incident_saved:r1"}, notifier.events)
}

func TestRecordStore_ReadFailureAbortsWrite(t *testing.T) {
	ctx := context.Background()
	kv := newFaultyKV()
	s := NewRecordStore(kv, nil, zerolog.Nop())
	_, err := s.Put(ctx, newRecord("r1", "25/00001"))
	require.NoError(t, err)

	kv.failGet = true
	_, err = s.Put(ctx, newRecord("r2", "25/00002"))
	assert.ErrorIs(t, err, domain.ErrPersistence)

	kv.failGet = false
	assert.Len(t, s.GetAll(ctx), 1)
}

func TestRecordStore_CorruptDataReadsAsEmptyAndIsQuarantinedOnWrite(t *testing.T) {
	ctx := context.Background()
	kv := newFaultyKV()
	require.NoError(t, kv.Set(ctx, IncidentsKey, "{not json"))
	s := NewRecordStore(kv, nil, zerolog.Nop())

	assert.Empty(t, s.GetAll(ctx))
	_, err := s.Get(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	_, err = s.Put(ctx, newRecord("r1", "25/00001"))
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, IncidentsKey+quarantineSuffix)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "{not json", raw)
	assert.Len(t, s.GetAll(ctx), 1)
}

func TestRecordStore_RemoveAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(newFaultyKV(), nil, zerolog.Nop())
	_, err := s.Put(ctx, newRecord("r1", "25/00001"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "missing"))
	assert.Len(t, s.GetAll(ctx), 1)

	require.NoError(t, s.Remove(ctx, "r1"))
	assert.Empty(t, s.GetAll(ctx))
}

func TestRecordStore_NotifierFailureIsSwallowed(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("no vibrator")}
	s := NewRecordStore(newFaultyKV(), notifier, zerolog.Nop())

	_, err := s.Put(context.Background(), newRecord("r1", "25/00001"))
	require.NoError(t, err)
	assert.Len(t, notifier.events, 1)
}

func TestRecordStore_ExportSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewRecordStore(newFaultyKV(), nil, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC) }

	_, err := s.Put(ctx, newRecord("r1", "24/00001"))
	require.NoError(t, err)
	_, err = s.Put(ctx, newRecord("r2", "24/00002"))
	require.NoError(t, err)

	snap, err := s.ExportSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ORNIK8_BACKUP_2024-03-01.json", snap.Name)
	assert.True(t, strings.HasPrefix(string(snap.Data), "[\n  {"))

	var decoded []domain.IncidentRecord
	require.NoError(t, json.Unmarshal(snap.Data, &decoded))
	assert.Len(t, decoded, 2)
}

func TestRecordStore_ExportEmpty(t *testing.T) {
	s := NewRecordStore(newFaultyKV(), nil, zerolog.Nop())

	snap, err := s.ExportSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(snap.Data))
}
