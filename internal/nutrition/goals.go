package nutrition

import "math"

// Goals are the fixed daily targets shown next to the day's totals.
type Goals struct {
	Kcal    float64 `json:"kcal"    example:"2000"`
	Protein float64 `json:"protein" example:"150"`
	Fiber   float64 `json:"fiber"   example:"35"`
}

// DefaultGoals returns the built-in daily targets.
func DefaultGoals() Goals {
	return Goals{Kcal: 2000, Protein: 150, Fiber: 35}
}

// GoalProgress is the share of a goal reached, clamped to [0,100].
type GoalProgress struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fiber   float64 `json:"fiber"`
}

// Progress compares m against g.
func Progress(m Macros, g Goals) GoalProgress {
	return GoalProgress{
		Kcal:    percent(m.Kcal, g.Kcal),
		Protein: percent(m.Protein, g.Protein),
		Fiber:   percent(m.Fiber, g.Fiber),
	}
}

func percent(cur, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	p := cur / goal * 100
	return math.Round(math.Min(100, math.Max(0, p))*10) / 10
}
