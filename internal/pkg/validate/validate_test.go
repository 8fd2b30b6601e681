package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	cases := []struct {
		in   string
		min  int
		want bool
	}{
		{"Kwame Mensah", 3, true},
		{"  Ama  ", 3, true},
		{"Jo", 3, false},
		{"", 3, false},
		{"   ", 3, false},
		{"Agent 47", 3, false}, // digits not allowed
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Name(c.in, c.min), "Name(%q, %d)", c.in, c.min)
	}
}

func TestCardNumber(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"GHA-123456789-01", true},
		{"gha-123456789-01", true}, // case-insensitive
		{" GHA-123456789-01 ", true},
		{"GHA-12345678-01", false},  // 8 digits
		{"GHA-123456789-1", false},  // 1 check digit
		{"GH1-123456789-01", false}, // digit in prefix
		{"GHA123456789-01", false},  // missing dash
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CardNumber(c.in), "CardNumber(%q)", c.in)
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0551234567", true},
		{"+233551234567", true},
		{"233551234567", true},
		{"055123456", false},    // local form too short
		{"05512345678", false},  // local form too long
		{"+23355123456", false}, // 8 subscriber digits
		{"+234551234567", false},
		{"abc", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Phone(c.in, "233"), "Phone(%q)", c.in)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0551234567", "+233551234567"},
		{"233551234567", "+233551234567"},
		{"+233551234567", "+233551234567"},
		{" 0551234567 ", "+233551234567"},
		{"garbage", "garbage"}, // not an accepted form: returned unchanged
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizePhone(c.in, "233"), "NormalizePhone(%q)", c.in)
	}
}

func TestUsername(t *testing.T) {
	assert.True(t, Username("kwame_m"))
	assert.True(t, Username("a.b-c9"))
	assert.False(t, Username("ab")) // too short
	assert.False(t, Username("this-username-is-way-too-long"))
	assert.False(t, Username("bad space"))
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("secret1"))
	assert.True(t, Password("123456"))
	assert.False(t, Password("12345"))
	assert.False(t, Password(""))
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("kwame@example.com"))
	assert.False(t, Email("not-an-email"))
	assert.False(t, Email(""))
}

func TestLicense(t *testing.T) {
	assert.True(t, License("DL-2026-001"))
	assert.True(t, License("AB123"))
	assert.False(t, License("AB12"))    // too short
	assert.False(t, License("AB 123")) // no spaces
}

func TestStruct_CustomTags(t *testing.T) {
	type payload struct {
		Card   string `validate:"required,card_number"`
		MSISDN string `validate:"required,msisdn=233"`
	}

	require.NoError(t, Struct(payload{Card: "GHA-123456789-01", MSISDN: "0551234567"}))

	err := Struct(payload{Card: "nope", MSISDN: "0551234567"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_number")

	err = Struct(payload{Card: "GHA-123456789-01", MSISDN: "12345"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "msisdn")
}
