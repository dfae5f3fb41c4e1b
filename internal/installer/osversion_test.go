package installer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckMinimumVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current string
		wantErr error
	}{
		{current: "10.0.17763", wantErr: nil},
		{current: "10.0.19045.3448", wantErr: nil},
		{current: "10.0.22631", wantErr: nil},
		{current: "10.0.17134", wantErr: ErrUnsupportedPlatform},
		{current: "10.0.9", wantErr: ErrUnsupportedPlatform},
		{current: "6.3.9600", wantErr: ErrUnsupportedPlatform},
		{current: "windows", wantErr: ErrParse},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.current, func(t *testing.T) {
			t.Parallel()

			err := CheckMinimumVersion(tt.current, "10.0.17763")
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckMinimumVersionIsNumeric(t *testing.T) {
	t.Parallel()

	// A plain string comparison orders these the wrong way round.
	require.Greater(t, "10.0.9", "10.0.17763")
	require.ErrorIs(t, CheckMinimumVersion("10.0.9", "10.0.17763"), ErrUnsupportedPlatform)
	require.NoError(t, CheckMinimumVersion("10.0.17763", "10.0.9"))
}

func TestCheckMinimumVersionBadMinimum(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, CheckMinimumVersion("10.0.17763", ""), ErrParse)
}

func TestNormalizeOSVersion(t *testing.T) {
	t.Parallel()

	v, err := normalizeOSVersion("10.0.19045.3448 Build 19045.3448")
	require.NoError(t, err)
	require.Equal(t, "10.0.19045.3448", v)

	v, err = normalizeOSVersion("10.0.17763")
	require.NoError(t, err)
	require.Equal(t, "10.0.17763", v)

	_, err = normalizeOSVersion("   ")
	require.ErrorIs(t, err, ErrParse)
}
