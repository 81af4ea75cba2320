package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueOrZero(t *testing.T) {
	assert.Equal(t, 0.0, ValueOrZero(nil))
	assert.Equal(t, 12.5, ValueOrZero(FloatPtr(12.5)))
	assert.Equal(t, 0.0, ValueOrZero(FloatPtr(0)))
	assert.Equal(t, -3.0, ValueOrZero(FloatPtr(-3)))
}

func TestFloatPtrEqual(t *testing.T) {
	tests := []struct {
		name string
		a    *float64
		b    *float64
		want bool
	}{
		{"both nil", nil, nil, true},
		{"left nil", nil, FloatPtr(1), false},
		{"right nil", FloatPtr(1), nil, false},
		{"equal values", FloatPtr(2.5), FloatPtr(2.5), true},
		{"different values", FloatPtr(2.5), FloatPtr(2.6), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FloatPtrEqual(tt.a, tt.b))
		})
	}
}

func TestDisplayCountry(t *testing.T) {
	tests := []struct {
		name   string
		nameEN string
		code   string
		want   string
	}{
		{"name and code", "Brazil", "BRA", "Brazil (BRA)"},
		{"missing name", "", "BRA", "BRA"},
		{"whitespace name", "   ", "PER", "PER"},
		{"padded name", " Peru ", "PER", "Peru (PER)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayCountry(tt.nameEN, tt.code))
		})
	}
}

func TestLatestYear(t *testing.T) {
	assert.Equal(t, 0, LatestYear(nil))

	rows := []RiskRow{
		{FeatureRow: FeatureRow{CountryCode: "BRA", Year: 2021}},
		{FeatureRow: FeatureRow{CountryCode: "PER", Year: 2023}},
		{FeatureRow: FeatureRow{CountryCode: "BRA", Year: 2022}},
	}
	assert.Equal(t, 2023, LatestYear(rows))
}

func TestCountryCodes(t *testing.T) {
	rows := []RiskRow{
		{FeatureRow: FeatureRow{CountryCode: "BRA", Year: 2021}},
		{FeatureRow: FeatureRow{CountryCode: "BRA", Year: 2022}},
		{FeatureRow: FeatureRow{CountryCode: "COL", Year: 2021}},
		{FeatureRow: FeatureRow{CountryCode: "PER", Year: 2021}},
		{FeatureRow: FeatureRow{CountryCode: "COL", Year: 2022}},
	}
	assert.Equal(t, []string{"BRA", "COL", "PER"}, CountryCodes(rows))
	assert.Nil(t, CountryCodes(nil))
}
