package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodePostalCodeBasic(t *testing.T) {
	encoded := EncodePostalCode([6]byte{'1', '2', '3', '4', 'A', 'B'})
	want := uint32(1234<<18) | uint32(1<<8)
	assert.Equal(t, want, encoded)
}

func TestEncodePostalCodeMaxLetters(t *testing.T) {
	encoded := EncodePostalCode([6]byte{'0', '0', '0', '0', 'Z', 'Z'})
	want := uint32(25<<13) | uint32(25<<8)
	assert.Equal(t, want, encoded)
}

func TestEncodePostalCodeMixed(t *testing.T) {
	encoded := EncodePostalCode([6]byte{'9', '8', '7', '6', 'Q', 'X'})
	want := uint32(9876<<18) | uint32(16<<13) | uint32(23<<8)
	assert.Equal(t, want, encoded)
}

func TestEncodePostalCodeSortEquivalence(t *testing.T) {
	cases := [][2]string{
		{"1234AA", "1234AB"},
		{"1234ZZ", "1235AA"},
		{"0000AA", "9999ZZ"},
		{"1000AA", "1000AB"},
	}
	for _, c := range cases {
		a, ok := NormalizePostalCode(c[0])
		assert.True(t, ok)
		b, ok := NormalizePostalCode(c[1])
		assert.True(t, ok)
		assert.Less(t, EncodePostalCode(a), EncodePostalCode(b), "%s < %s", c[0], c[1])
	}
}

func TestNormalizePostalCode(t *testing.T) {
	pc, ok := NormalizePostalCode("1234ab")
	assert.True(t, ok)
	assert.Equal(t, [6]byte{'1', '2', '3', '4', 'A', 'B'}, pc)

	_, ok = NormalizePostalCode("12345")
	assert.False(t, ok)

	_, ok = NormalizePostalCode("1234ABC")
	assert.False(t, ok)

	pc, ok = NormalizePostalCode(" 234AB")
	assert.True(t, ok)
	assert.Equal(t, byte(' '), pc[0], "whitespace is not trimmed")
}
