package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCountry(t *testing.T) {
	detector := NewCountryDetector()

	tests := []struct {
		location string
		want     string
	}{
		{"Berlin, Germany", "de"},
		{"London", "gb"},
		{"London, UK", "gb"},
		{"New York, NY", "us"},
		{"san francisco bay area", "us"},
		{"Remote - USA", "us"},
		{"Sydney", "au"},
		{"Singapore", "sg"},
		{"Amsterdam, Netherlands", "nl"},
		{"Bangalore", "in"},
		{"somewhere in France", "fr"},
		{"", ""},
		{"Atlantis", ""},
		{"ukulele festival grounds", ""},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.Detect(tt.location))
		})
	}
}

func TestIsSupported(t *testing.T) {
	detector := NewCountryDetector()

	assert.True(t, detector.IsSupported("us"))
	assert.True(t, detector.IsSupported("GB"))
	assert.False(t, detector.IsSupported("xx"))
	assert.False(t, detector.IsSupported(""))
}

func TestCountryName(t *testing.T) {
	detector := NewCountryDetector()

	assert.Equal(t, "United Kingdom", detector.CountryName("gb"))
	assert.Equal(t, "", detector.CountryName("xx"))
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("remote uk based", "uk"))
	assert.True(t, containsWord("uk", "uk"))
	assert.False(t, containsWord("ukulele", "uk"))
	assert.False(t, containsWord("milk truck", "uk"))
}
