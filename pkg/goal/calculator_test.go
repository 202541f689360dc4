package goal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_WorkedExample(t *testing.T) {
	b := Biometrics{Age: 30, Gender: "male", Height: 175, Weight: 70, ActivityLevel: ActivityModeratelyActive}

	assert.InDelta(t, 1648.75, BMR(b), 1e-9)
	assert.InDelta(t, 2555.5625, TDEE(b), 1e-9)

	got, err := Calculate(b, GoalMaintain)
	require.NoError(t, err)
	assert.Equal(t, Targets{Calories: 2556, Protein: 160, Carbs: 319, Fat: 71}, got)
}

func TestCalculate_GoalAdjustment(t *testing.T) {
	profiles := []Biometrics{
		{Age: 30, Gender: "male", Height: 175, Weight: 70, ActivityLevel: ActivityModeratelyActive},
		{Age: 45, Gender: "female", Height: 162, Weight: 68.4, ActivityLevel: ActivitySedentary},
		{Age: 22, Gender: "other", Height: 181.5, Weight: 90, ActivityLevel: ActivityExtraActive},
		{Age: 67, Gender: "female", Height: 150, Weight: 55, ActivityLevel: "unknown"},
	}

	for _, b := range profiles {
		tdee := roundHalfUp(TDEE(b))

		maintain, err := Calculate(b, GoalMaintain)
		require.NoError(t, err)
		lose, err := Calculate(b, GoalLose)
		require.NoError(t, err)
		gain, err := Calculate(b, GoalGain)
		require.NoError(t, err)

		assert.Equal(t, int(tdee), maintain.Calories)
		assert.Equal(t, int(tdee)-500, lose.Calories)
		assert.Equal(t, int(tdee)+500, gain.Calories)
	}
}

func TestCalculate_EnergyIdentity(t *testing.T) {
	levels := []string{ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive, ActivityVeryActive, ActivityExtraActive, "couch"}
	genders := []string{"male", "female", "other"}
	goals := []GoalType{GoalLose, GoalMaintain, GoalGain}

	for age := 18.0; age <= 90; age += 9 {
		for height := 150.0; height <= 200; height += 7.5 {
			for weight := 45.0; weight <= 140; weight += 11.3 {
				for _, gender := range genders {
					for _, level := range levels {
						for _, g := range goals {
							b := Biometrics{Age: age, Gender: gender, Height: height, Weight: weight, ActivityLevel: level}
							got, err := Calculate(b, g)
							require.NoError(t, err)

							sum := got.Protein*4 + got.Fat*9 + got.Carbs*4
							assert.LessOrEqual(t, math.Abs(sum-float64(got.Calories)), 2.0, "%+v %s", b, g)
							assert.GreaterOrEqual(t, got.Protein, 0.0)
							assert.GreaterOrEqual(t, got.Carbs, 0.0)
							assert.GreaterOrEqual(t, got.Fat, 0.0)
						}
					}
				}
			}
		}
	}
}

func TestCalculate_LoseUsesHigherProteinShare(t *testing.T) {
	b := Biometrics{Age: 30, Gender: "male", Height: 175, Weight: 70, ActivityLevel: ActivityModeratelyActive}

	got, err := Calculate(b, GoalLose)
	require.NoError(t, err)

	assert.Equal(t, 2056, got.Calories)
	assert.Equal(t, roundHalfUp(2056*0.30/4), got.Protein)
	assert.Equal(t, roundHalfUp(2056*0.25/9), got.Fat)
}

func TestActivityMultiplier(t *testing.T) {
	tests := map[string]float64{
		ActivitySedentary:        1.2,
		ActivityLightlyActive:    1.375,
		ActivityModeratelyActive: 1.55,
		ActivityVeryActive:       1.725,
		ActivityExtraActive:      1.9,
		"":                       1.2,
		"hyperactive":            1.2,
	}
	for level, want := range tests {
		assert.Equal(t, want, ActivityMultiplier(level), level)
	}
}

func TestCalculate_MissingBiometrics(t *testing.T) {
	valid := Biometrics{Age: 30, Gender: "male", Height: 175, Weight: 70}

	cases := map[string]func(b *Biometrics){
		"age":        func(b *Biometrics) { b.Age = 0 },
		"height":     func(b *Biometrics) { b.Height = -1 },
		"weight nan": func(b *Biometrics) { b.Weight = math.NaN() },
		"weight inf": func(b *Biometrics) { b.Weight = math.Inf(1) },
		"gender":     func(b *Biometrics) { b.Gender = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			b := valid
			mutate(&b)
			_, err := Calculate(b, GoalMaintain)
			assert.ErrorIs(t, err, ErrMissingBiometrics)
		})
	}
}

func TestCalculate_NeverNegative(t *testing.T) {
	b := Biometrics{Age: 120, Gender: "female", Height: 30, Weight: 20, ActivityLevel: ActivitySedentary}

	got, err := Calculate(b, GoalLose)
	require.NoError(t, err)
	assert.Equal(t, Targets{}, got)
}

func TestParseGoalType(t *testing.T) {
	tests := []struct {
		in   string
		want GoalType
		err  error
	}{
		{"lose", GoalLose, nil},
		{"lose_weight", GoalLose, nil},
		{"Gain", GoalGain, nil},
		{"gain_weight", GoalGain, nil},
		{"maintain", GoalMaintain, nil},
		{"", GoalMaintain, nil},
		{"bulk", "", ErrInvalidGoalType},
	}
	for _, tt := range tests {
		got, err := ParseGoalType(tt.in)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
