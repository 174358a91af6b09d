package msg

import (
	"errors"
	"testing"

	"github.com/nsavage/medio/threading"
	"github.com/stretchr/testify/require"
)

func TestDefaultSinkIsNoOp(t *testing.T) {
	require.NotPanics(t, func() {
		Default.Emit(0, "text")
		Default.Warn(0, "text")
		Default.Err(0, errors.New("boom"))
	})
}

func TestSinkEmitRespectsSuppressMessageOutput(t *testing.T) {
	var got []string
	s := Sink{Message: func(text string) { got = append(got, text) }}

	s.Emit(threading.SuppressMessageOutput, "suppressed")
	require.Empty(t, got)

	s.Emit(0, "visible")
	require.Equal(t, []string{"visible"}, got)
}

func TestSinkWarnRespectsSuppressWarningOutput(t *testing.T) {
	var got []string
	s := Sink{Warning: func(text string) { got = append(got, text) }}

	s.Warn(threading.SuppressWarningOutput, "suppressed")
	require.Empty(t, got)

	s.Warn(0, "visible")
	require.Equal(t, []string{"visible"}, got)
}

func TestSinkErrRespectsSuppressErrorOutput(t *testing.T) {
	var got []error
	s := Sink{Error: func(err error) { got = append(got, err) }}

	s.Err(threading.SuppressErrorOutput, errors.New("suppressed"))
	require.Empty(t, got)

	visible := errors.New("visible")
	s.Err(0, visible)
	require.Equal(t, []error{visible}, got)
}
