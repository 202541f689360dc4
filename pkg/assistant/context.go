package assistant

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"nutriscan-backend/entities"
	"nutriscan-backend/pkg/goal"
)

const (
	OnboardingIncompleteMarker = "Profile Status: INCOMPLETE - User needs to complete onboarding first"

	maxTodayEntries   = 5
	maxPatternDates   = 3
	maxPatternFoods   = 3
	maxFoodNameRunes  = 60
	maxFieldRunes     = 80
	unknownFood       = "Unknown food"
	unresolvedPercent = "?"
)

type (
	UserSummary struct {
		Name  string
		Email string
	}

	// ContextInput is everything the assembler reads. Profile and Goal may be
	// nil. A non-empty Unavailable reason selects the degraded block.
	ContextInput struct {
		User        UserSummary
		Profile     *entities.Profile
		Goal        *entities.DailyGoal
		TodayLogs   []entities.ConsumptionLog
		RecentLogs  []entities.ConsumptionLog
		Unavailable string
	}

	// DailyTotals sums the calculated nutrients of a set of logs.
	DailyTotals struct {
		Calories float64
		Protein  float64
		Carbs    float64
		Fat      float64
		Sugar    float64
	}

	DayPattern struct {
		Date     string
		Calories float64
		Foods    []string
	}
)

// BuildContext renders the personalization block placed in assistant prompts.
// Output depends only on in, contains no control characters other than
// newlines, and stays bounded however many logs are passed.
func BuildContext(in ContextInput) string {
	if in.Unavailable != "" {
		return fmt.Sprintf("USER CONTEXT: User data unavailable (%s) - provide general nutrition advice and suggest completing their profile for personalized recommendations.",
			sanitize(in.Unavailable, maxFieldRunes))
	}

	var b strings.Builder
	b.WriteString("USER PERSONALIZATION CONTEXT:\n\nUSER PROFILE:")
	writeLine(&b, "- Name: "+orUnknown(sanitize(in.User.Name, maxFieldRunes)))
	writeLine(&b, "- Email: "+orUnknown(sanitize(in.User.Email, maxFieldRunes)))

	if in.Profile == nil && in.Goal == nil {
		writeLine(&b, "- "+OnboardingIncompleteMarker)
		writeLine(&b, "- Daily Goals: NOT SET - Cannot provide personalized advice")
		b.WriteString("\n")
		writeLine(&b, "IMPORTANT: Tell user they need to complete their profile setup to get personalized nutrition goals and advice. Do not mention any specific calorie or macronutrient targets.")
		writeInstructions(&b)
		return b.String()
	}

	writeProfile(&b, in.Profile)
	writeGoals(&b, in.Goal)
	writeToday(&b, in.Goal, in.TodayLogs)
	writePatterns(&b, in.RecentLogs)
	writeInstructions(&b)
	return b.String()
}

func writeProfile(b *strings.Builder, p *entities.Profile) {
	if p == nil {
		writeLine(b, "- Profile Status: INCOMPLETE - Basic info missing")
		return
	}
	writeLine(b, fmt.Sprintf("- Age: %d years old", p.Age))
	writeLine(b, "- Gender: "+sanitize(p.Gender, maxFieldRunes))
	writeLine(b, "- Height: "+num(p.Height)+" cm")
	writeLine(b, "- Weight: "+num(p.Weight)+" kg")
	writeLine(b, fmt.Sprintf("- BMI: %.1f", p.BMI))
	writeLine(b, "- Activity Level: "+sanitize(p.ActivityLevel, maxFieldRunes))
}

func writeGoals(b *strings.Builder, g *entities.DailyGoal) {
	if g == nil {
		b.WriteString("\n")
		writeLine(b, "DAILY NUTRITION GOALS: NOT SET - User needs to complete profile setup")
		return
	}
	writeLine(b, "- Goal Type: "+sanitize(g.GoalType, maxFieldRunes))
	b.WriteString("\n")
	writeLine(b, "DAILY NUTRITION GOALS:")
	writeLine(b, fmt.Sprintf("- Calories: %d kcal/day", g.TargetCalories))
	writeLine(b, "- Protein: "+num(g.TargetProtein)+"g/day")
	writeLine(b, "- Carbohydrates: "+num(g.TargetCarbs)+"g/day")
	writeLine(b, "- Fat: "+num(g.TargetFat)+"g/day")
}

func writeToday(b *strings.Builder, g *entities.DailyGoal, logs []entities.ConsumptionLog) {
	t := Totals(logs)

	var calories, protein, carbs, fat, sugar float64
	if g != nil {
		calories = float64(g.TargetCalories)
		protein, carbs, fat = g.TargetProtein, g.TargetCarbs, g.TargetFat
		sugar = g.TargetSugar
		if sugar <= 0 {
			sugar = goal.DefaultTargetSugar
		}
	}

	b.WriteString("\n")
	writeLine(b, "TODAY'S PROGRESS (Current Status):")
	writeLine(b, progressLine("Calories", "", " kcal", t.Calories, calories))
	writeLine(b, progressLine("Protein", "g", "g", t.Protein, protein))
	writeLine(b, progressLine("Carbs", "g", "g", t.Carbs, carbs))
	writeLine(b, progressLine("Fat", "g", "g", t.Fat, fat))
	writeLine(b, progressLine("Sugar", "g", "g", t.Sugar, sugar))

	b.WriteString("\n")
	writeLine(b, fmt.Sprintf("FOODS EATEN TODAY (%d total items):", len(logs)))
	if len(logs) == 0 {
		writeLine(b, "- No food logged today yet")
		return
	}
	for i, l := range logs {
		if i == maxTodayEntries {
			break
		}
		writeLine(b, fmt.Sprintf("%d. %s: %s (%sg) - %d kcal",
			i+1, l.ConsumedAt.UTC().Format("15:04"), foodName(l), num(l.AmountConsumed), roundInt(deref(l.CalculatedCalories))))
	}
}

// progressLine renders "- Name: consumed/target unit (pct%)". Target and
// percentage show "?" unless the target is positive.
func progressLine(label, consumedUnit, targetUnit string, consumed, target float64) string {
	targetText, pct := unresolvedPercent, unresolvedPercent
	if target > 0 {
		targetText = num(target)
		pct = strconv.Itoa(Percent(consumed, target))
	}
	return fmt.Sprintf("- %s: %d%s/%s%s (%s%%)", label, roundInt(consumed), consumedUnit, targetText, targetUnit, pct)
}

func writePatterns(b *strings.Builder, logs []entities.ConsumptionLog) {
	days := RecentPatterns(logs)
	if len(days) == 0 {
		return
	}
	b.WriteString("\n")
	writeLine(b, "RECENT EATING PATTERNS (Last 7 days):")
	for _, d := range days {
		foods := d.Foods
		more := ""
		if len(foods) > maxPatternFoods {
			foods, more = foods[:maxPatternFoods], "..."
		}
		writeLine(b, fmt.Sprintf("- %s: %d kcal (%s%s)", d.Date, roundInt(d.Calories), strings.Join(foods, ", "), more))
	}
}

func writeInstructions(b *strings.Builder) {
	b.WriteString("\n")
	writeLine(b, "PERSONALIZATION INSTRUCTIONS:")
	writeLine(b, "- ONLY use data that is actually available - don't contradict yourself")
	writeLine(b, "- If profile is incomplete, tell user to complete setup first")
	writeLine(b, "- If daily goals exist, reference them specifically")
	writeLine(b, "- If no goals are set, don't mention specific calorie numbers")
	writeLine(b, "- Be consistent - don't say a goal is unset and then cite a specific target")
	writeLine(b, "- Provide advice based only on the data you actually have")
}

// RecentPatterns groups logs by calendar date, newest date first, keeping at
// most three dates. Food names keep input order within a date.
func RecentPatterns(logs []entities.ConsumptionLog) []DayPattern {
	byDate := map[string]*DayPattern{}
	for _, l := range logs {
		date := sanitize(l.Date, 10)
		if date == "" {
			date = "Unknown date"
		}
		d, ok := byDate[date]
		if !ok {
			d = &DayPattern{Date: date}
			byDate[date] = d
		}
		d.Calories += deref(l.CalculatedCalories)
		d.Foods = append(d.Foods, foodName(l))
	}

	days := make([]DayPattern, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	if len(days) > maxPatternDates {
		days = days[:maxPatternDates]
	}
	return days
}

func Totals(logs []entities.ConsumptionLog) DailyTotals {
	var t DailyTotals
	for _, l := range logs {
		t.Calories += deref(l.CalculatedCalories)
		t.Protein += deref(l.CalculatedProtein)
		t.Carbs += deref(l.CalculatedCarbs)
		t.Fat += deref(l.CalculatedFat)
		t.Sugar += deref(l.CalculatedSugar)
	}
	return t
}

// Percent is round(100 * consumed / target); callers guarantee target > 0.
func Percent(consumed, target float64) int {
	return roundInt(100 * consumed / target)
}

func foodName(l entities.ConsumptionLog) string {
	if l.FoodItem == nil {
		return unknownFood
	}
	if name := sanitize(l.FoodItem.Name, maxFoodNameRunes); name != "" {
		return name
	}
	return unknownFood
}

// sanitize flattens control characters to spaces, collapses whitespace and
// truncates to max runes.
func sanitize(s string, max int) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) || r == unicode.ReplacementChar {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > max {
		s = strings.TrimSpace(string(r[:max])) + "..."
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func writeLine(b *strings.Builder, s string) {
	b.WriteString("\n")
	b.WriteString(s)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
