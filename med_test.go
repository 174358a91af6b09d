package medio

import (
	"testing"

	"github.com/nsavage/medio/aggregate"
	"github.com/nsavage/medio/matrix"
	"github.com/nsavage/medio/timeslice"
	"github.com/stretchr/testify/require"
)

// TestDeriveLevel1KeyIsDeterministic verifies the same password always
// derives the same expanded key.
func TestDeriveLevel1KeyIsDeterministic(t *testing.T) {
	key1, err := DeriveLevel1Key("reader-password")
	require.NoError(t, err)
	require.NotNil(t, key1)

	key2, err := DeriveLevel1Key("reader-password")
	require.NoError(t, err)
	require.Equal(t, key1.Raw(), key2.Raw())
}

// TestDeriveLevel1AndLevel2KeysDiffer verifies Level 1 and Level 2 keys
// derived from distinct passwords are distinct.
func TestDeriveLevel1AndLevel2KeysDiffer(t *testing.T) {
	level1, err := DeriveLevel1Key("reader-password")
	require.NoError(t, err)

	level2, err := DeriveLevel2Key("admin-password")
	require.NoError(t, err)

	require.NotEqual(t, level1.Raw(), level2.Raw())
}

// TestRecoverLevel1KeyRoundTrips verifies a Level 2 key can recover the
// Level 1 key that was sealed into its recovery block at session-creation
// time.
func TestRecoverLevel1KeyRoundTrips(t *testing.T) {
	level1, err := DeriveLevel1Key("reader-password")
	require.NoError(t, err)

	level2, err := DeriveLevel2Key("admin-password")
	require.NoError(t, err)

	var recoveryBlock [16]byte
	raw := level1.Raw()
	copy(recoveryBlock[:], raw[:])
	level2.EncryptECB(recoveryBlock[:])

	recovered, err := RecoverLevel1Key(level2, recoveryBlock)
	require.NoError(t, err)
	require.Equal(t, level1.Raw(), recovered.Raw())
}

// TestNewTimeSliceIsEntirelyUnset verifies the convenience constructor
// forwards to an all-sentinel slice.
func TestNewTimeSliceIsEntirelyUnset(t *testing.T) {
	slice := NewTimeSlice()
	require.Equal(t, timeslice.UUTCNoEntry, slice.StartTime)
	require.Equal(t, timeslice.UUTCNoEntry, slice.EndTime)
	require.Equal(t, timeslice.SampleNumberNoEntry, slice.StartSample)
	require.Equal(t, timeslice.SampleNumberNoEntry, slice.EndSample)
	require.Equal(t, -1, slice.StartSegment)
	require.Equal(t, -1, slice.EndSegment)
}

// TestDefaultMatrixOptionsMatchesMatrixPackage verifies the convenience
// wrapper forwards to matrix.DefaultOptions unchanged.
func TestDefaultMatrixOptionsMatchesMatrixPackage(t *testing.T) {
	require.Equal(t, matrix.DefaultOptions(), DefaultMatrixOptions())
}

// TestGetMatrixWithoutReferenceChannelErrors verifies the facade forwards
// straight through to matrix.GetMatrix's own validation.
func TestGetMatrixWithoutReferenceChannelErrors(t *testing.T) {
	session := &aggregate.Session{Name: "empty"}

	_, err := GetMatrix(session, NewTimeSlice(), DefaultMatrixOptions())
	require.Error(t, err)
}

// TestAllocationTrackerStartsEmpty verifies the facade constructor
// forwards to an empty tracker.
func TestAllocationTrackerStartsEmpty(t *testing.T) {
	tracker := NewAllocationTracker()
	require.Equal(t, 0, tracker.Count())
	require.Empty(t, tracker.Leaks())
}

// TestEnableAllocationTrackingDisablesOnNil verifies disabling tracking
// (passing nil) doesn't panic on a subsequent call.
func TestEnableAllocationTrackingDisablesOnNil(t *testing.T) {
	EnableAllocationTracking(NewAllocationTracker())
	EnableAllocationTracking(nil)
}
