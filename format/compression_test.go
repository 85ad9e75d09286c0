package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionString(t *testing.T) {
	require.Equal(t, "none", CompressionNone.String())
	require.Equal(t, "zstd", CompressionZstd.String())
	require.Equal(t, "s2", CompressionS2.String())
	require.Equal(t, "lz4", CompressionLZ4.String())
	require.Equal(t, "unknown", CompressionType(0).String())
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
	}{
		{"", CompressionNone},
		{"none", CompressionNone},
		{"ZSTD", CompressionZstd},
		{" s2 ", CompressionS2},
		{"lz4", CompressionLZ4},
	}
	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := ParseCompression("brotli")
	require.Error(t, err)
}

func TestCompressionText(t *testing.T) {
	text, err := CompressionLZ4.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "lz4", string(text))

	var c CompressionType
	require.NoError(t, c.UnmarshalText([]byte("s2")))
	require.Equal(t, CompressionS2, c)

	_, err = CompressionType(9).MarshalText()
	require.Error(t, err)
}
