package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"$24,995", 24995, false},
		{"Price: $ 67,900.50", 67900.50, false},
		{"Was 3 days ago $35,000", 35000, false},
		{"24995", 24995, false},
		{"Price: 18,250", 18250, false},
		{"$0", 0, true},
		{"Call for price", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCurrency(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseMileage(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"25,000 mi", 25000, false},
		{"12500 miles", 12500, false},
		{"Mileage: 1,234,567", 1234567, false},
		{"0 miles", 0, true},
		{"unknown", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMileage(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizers(t *testing.T) {
	got, err := Currency("$1,299.99")
	require.NoError(t, err)
	assert.Equal(t, "1299.99", got)

	got, err = Mileage("45,000 miles")
	require.NoError(t, err)
	assert.Equal(t, "45000", got)

	got, err = CollapseSpace("  2021\n  Honda   Civic ")
	require.NoError(t, err)
	assert.Equal(t, "2021 Honda Civic", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefgh", 5))
	assert.Equal(t, "ééé...", Truncate("éééé", 3))
	assert.Equal(t, "unchanged", Truncate("unchanged", 0))
}
