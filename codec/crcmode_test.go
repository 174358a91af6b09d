package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCRCMode_Has(t *testing.T) {
	m := CRCCalculateOnOutput | CRCValidateOnInput

	require.True(t, m.Has(CRCCalculateOnOutput))
	require.True(t, m.Has(CRCValidateOnInput))
	require.False(t, m.Has(CRCValidate))
}

func TestDefaultCRCMode(t *testing.T) {
	require.True(t, DefaultCRCMode.Has(CRCCalculateOnOutput))
	require.False(t, DefaultCRCMode.Has(CRCValidateOnInput))
}
