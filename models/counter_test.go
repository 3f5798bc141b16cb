package models

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextCardID(t *testing.T) {
	cases := map[string]string{
		"0":          "1",
		"1":          "2",
		"41":         "42",
		"999":        "1000",
		" 7 ":        "8",
		"007":        "8",
		"":           "1",
		"abc":        "1",
		"-5":         "1",
		"12abc":      "1",
		"2147483647": "2147483648",
		"+3":         "4",
	}
	for in, want := range cases {
		assert.Equal(t, want, NextCardID(in), "input %q", in)
	}
}

func TestNextCardID_PastInt64(t *testing.T) {
	next := NextCardID("9223372036854775807")
	assert.Equal(t, "9223372036854775808", next)
	assert.Equal(t, "9223372036854775809", NextCardID(next))
}

func TestNextCardID_AllNonNegativeIntegers(t *testing.T) {
	for n := 0; n < 2000; n++ {
		assert.Equal(t, strconv.Itoa(n+1), NextCardID(strconv.Itoa(n)))
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"GSL0000", "GSL0001"},
		{"GSL0001", "GSL0002"},
		{"GSL0999", "GSL1000"},
		{"GSL9999", "GSL10000"},
		{"", "GSL0001"},
		{"   ", "GSL0001"},
		{"ABC", "ABC0001"},
		{"0041", "0042"},
		{"99", "100"},
		{"INV-2024-009", "INV-2024-010"},
		{" GSL0005 ", "GSL0006"},
		{"GSL99999999999999999999", "GSL0001"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NextInvoiceNumber(tc.in), "input %q", tc.in)
	}
}

func TestNewCounter(t *testing.T) {
	c := NewCounter()
	assert.Equal(t, CounterID, c.ID)
	assert.Equal(t, "GSL0000", c.LastInvoiceNumber)
	assert.Equal(t, "0", c.LastCardID)
	assert.Equal(t, "GSL0001", NextInvoiceNumber(c.LastInvoiceNumber))
	assert.Equal(t, "1", NextCardID(c.LastCardID))
}
