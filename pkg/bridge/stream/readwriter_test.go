package stream

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriter(t *testing.T) {
	testCases := []struct {
		name   string
		packet []byte
		expect []byte
	}{
		{"empty", []byte{}, []byte{0, 0, 0, 0}},
		{"small", []byte{0x42}, []byte{1, 0, 0, 0, 0x42}},
		{"multi", []byte{1, 2, 3}, []byte{3, 0, 0, 0, 1, 2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			rw := New(&buf)
			require.NoError(t, rw.WritePacket(tc.packet))
			require.Equal(t, tc.expect, buf.Bytes())

			pkt, err := rw.ReadPacket()
			require.NoError(t, err)
			require.Equal(t, tc.packet, pkt)
		})
	}
}

func TestReadWriterSequence(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	packets := [][]byte{{1}, {2, 3}, {4, 5, 6}}
	for _, pkt := range packets {
		require.NoError(t, rw.WritePacket(pkt))
	}
	for _, expect := range packets {
		pkt, err := rw.ReadPacket()
		require.NoError(t, err)
		require.Equal(t, expect, pkt)
	}
}
