package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/warung/internal/encoding"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset encoding.Charset
	}

	tests := []testCase{
		{
			name:        "plain utf-8",
			input:       []byte("nama;harga_jual\nKopi Kapal Api;1.500\n"),
			want:        "nama;harga_jual\nKopi Kapal Api;1.500\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "utf-8 with bom",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, "nama;stok\n"...),
			want:        "nama;stok\n",
			wantCharset: encoding.UTF8BOM,
		},
		{
			name:        "utf-16 little endian",
			input:       []byte{0xFF, 0xFE, 'n', 0, 'a', 0, 'm', 0, 'a', 0, '\n', 0},
			want:        "nama\n",
			wantCharset: encoding.UTF16LE,
		},
		{
			name:        "utf-16 big endian",
			input:       []byte{0xFE, 0xFF, 0, 's', 0, 't', 0, 'o', 0, 'k', 0, '\n'},
			want:        "stok\n",
			wantCharset: encoding.UTF16BE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, cs, err := encoding.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCharset, cs)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDecode_SingleByteFallback(t *testing.T) {
	// "Café Susu;Stok\n" saved by Excel on Windows; é is 0xE9.
	input := []byte{'C', 'a', 'f', 0xE9, ' ', 'S', 'u', 's', 'u', ';', 'S', 't', 'o', 'k', '\n'}

	r, cs, err := encoding.Decode(bytes.NewReader(input))
	require.NoError(t, err)
	assert.NotEqual(t, encoding.UTF8, cs)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café Susu;Stok\n", string(got))
}

func TestDetect_Empty(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect(nil))
}
