package main

import (
	"fmt"

	"nutriscan-backend/pkg/goal"

	"github.com/spf13/cobra"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Goal engine utilities",
}

var (
	calcAge      float64
	calcGender   string
	calcHeight   float64
	calcWeight   float64
	calcActivity string
	calcGoalType string
)

var goalsCalcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute daily targets from biometrics without touching the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		goalType, err := goal.ParseGoalType(calcGoalType)
		if err != nil {
			return err
		}
		b := goal.Biometrics{
			Age:           calcAge,
			Gender:        calcGender,
			Height:        calcHeight,
			Weight:        calcWeight,
			ActivityLevel: calcActivity,
		}
		targets, err := goal.Calculate(b, goalType)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Goal: %s\nBMR: %.2f\nTDEE: %.2f\n", goalType, goal.BMR(b), goal.TDEE(b))
		fmt.Fprintf(out, "Calories: %d\nProtein: %gg\nCarbs: %gg\nFat: %gg\n", targets.Calories, targets.Protein, targets.Carbs, targets.Fat)
		return nil
	},
}

func init() {
	goalsCalcCmd.Flags().Float64Var(&calcAge, "age", 0, "Age in years")
	goalsCalcCmd.Flags().StringVar(&calcGender, "gender", "", "male, female or other")
	goalsCalcCmd.Flags().Float64Var(&calcHeight, "height", 0, "Height in cm")
	goalsCalcCmd.Flags().Float64Var(&calcWeight, "weight", 0, "Weight in kg")
	goalsCalcCmd.Flags().StringVar(&calcActivity, "activity", goal.ActivitySedentary, "Activity level")
	goalsCalcCmd.Flags().StringVar(&calcGoalType, "goal", "maintain", "lose, maintain or gain")
	goalsCmd.AddCommand(goalsCalcCmd)
}
