package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLogger_DerivedLoggersShareEntries(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField(FieldTransactionID, "tx-1")
	child.WithError(errors.New("nope")).Error("reconcile failed", F(FieldReason, "missing"))
	mock.Info("done")

	entries := mock.Entries()
	require.Len(t, entries, 2)

	v, ok := entries[0].Field(FieldTransactionID)
	assert.True(t, ok)
	assert.Equal(t, "tx-1", v)
	assert.EqualError(t, entries[0].Error, "nope")
	assert.True(t, mock.HasEntry("INFO", "done"))
	assert.Len(t, mock.GetEntriesByLevel("ERROR"), 1)

	_, ok = entries[1].Field(FieldTransactionID)
	assert.False(t, ok)

	mock.Clear()
	assert.Empty(t, mock.Entries())
}

func TestMockLogger_ZeroValueUsable(t *testing.T) {
	var mock MockLogger
	mock.Fatalf("bad %s", "thing")
	assert.True(t, mock.HasEntry("FATAL", "bad thing"))
}
