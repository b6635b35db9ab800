package util

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeULEB128(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint64
		n    uint32
	}{
		{[]byte{0x02}, 2, 1},
		{[]byte{0x7f}, 127, 1},
		{[]byte{0x80, 0x01}, 128, 2},
		{[]byte{0xe5, 0x8e, 0x26}, 624485, 3},
	}
	for _, c := range cases {
		got, n := DecodeULEB128(bytes.NewBuffer(c.in))
		assert.Equal(t, c.want, got, "% x", c.in)
		assert.Equal(t, c.n, n, "% x", c.in)
	}
}

func TestDecodeSLEB128(t *testing.T) {
	cases := []struct {
		in   []byte
		want int64
	}{
		{[]byte{0x02}, 2},
		{[]byte{0x7e}, -2},
		{[]byte{0xff, 0x00}, 127},
		{[]byte{0x81, 0x7f}, -127},
		{[]byte{0xc0, 0xbb, 0x78}, -123456},
	}
	for _, c := range cases {
		got, _ := DecodeSLEB128(bytes.NewBuffer(c.in))
		assert.Equal(t, c.want, got, "% x", c.in)
	}
}

func TestParseString(t *testing.T) {
	buf := bytes.NewBuffer([]byte("zR\x00rest"))
	s, n := ParseString(buf)
	assert.Equal(t, "zR", s)
	assert.Equal(t, uint32(3), n)
	assert.Equal(t, "rest", buf.String())

	s, n = ParseString(bytes.NewBuffer([]byte("unterminated")))
	assert.Equal(t, "", s)
	assert.Zero(t, n)
}

func TestReadUintRaw(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	v, err := ReadUintRaw(bytes.NewReader(data), binary.LittleEndian, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x04030201), v)

	v, err = ReadUintRaw(bytes.NewReader(data), binary.BigEndian, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v)

	_, err = ReadUintRaw(bytes.NewReader(data), binary.LittleEndian, 2)
	assert.ErrorIs(t, err, ErrUnsupportedPtrSize)

	_, err = ReadUintRaw(bytes.NewReader(data[:3]), binary.LittleEndian, 4)
	assert.Error(t, err)
}
