package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateBMI(t *testing.T) {
	assert.Equal(t, 22.9, CalculateBMI(70, 175))
	assert.Equal(t, 0.0, CalculateBMI(70, 0))
}

func TestBMICategory(t *testing.T) {
	tests := map[float64]string{
		17.9: BMIUnderweight,
		18.5: BMINormal,
		24.9: BMINormal,
		25:   BMIOverweight,
		29.9: BMIOverweight,
		30:   BMIObese,
		41.2: BMIObese,
	}
	for bmi, want := range tests {
		assert.Equal(t, want, BMICategory(bmi), "bmi %v", bmi)
	}
}
