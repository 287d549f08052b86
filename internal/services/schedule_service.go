package services

import (
	"context"
	"fmt"
	"sort"

	"tripweaver/internal/models/plan_models"
)

type ScheduleServiceInterface interface {
	Assemble(ctx context.Context, clusters []plan_models.ActivityCluster, meals []plan_models.MealAssignment,
		hotel *plan_models.Accommodation, constraints plan_models.TripConstraints) []plan_models.DaySchedule
}

type ScheduleService struct {
	rebalancer RebalanceServiceInterface
	matrix     DistanceMatrixService
}

func NewScheduleService(rebalancer RebalanceServiceInterface, matrix DistanceMatrixService) ScheduleServiceInterface {
	return &ScheduleService{rebalancer: rebalancer, matrix: matrix}
}

const (
	breakfastMinutes = 45
	lunchMinutes     = 60
	dinnerMinutes    = 90
	lunchEarliest    = 12*60 + 30
	dinnerEarliest   = 19 * 60
)

// Assemble renders frozen clusters plus meal and hotel picks into timed day
// items. Activities run in cluster order with travel gaps estimated from the
// distance matrix; meals slot in around them at conventional hours.
func (s *ScheduleService) Assemble(ctx context.Context, clusters []plan_models.ActivityCluster, meals []plan_models.MealAssignment,
	hotel *plan_models.Accommodation, constraints plan_models.TripConstraints) []plan_models.DaySchedule {

	ordered := make([]plan_models.ActivityCluster, len(clusters))
	copy(ordered, clusters)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Day < ordered[j].Day })

	budgets := s.rebalancer.ComputeBudgets(ordered, constraints)
	mealsByDay := indexMeals(meals)

	days := make([]plan_models.DaySchedule, 0, len(ordered))
	for i, cluster := range ordered {
		days = append(days, s.assembleDay(ctx, cluster, budgets[i], mealsByDay[cluster.Day], hotel, constraints.TransportMode))
	}
	return days
}

func (s *ScheduleService) assembleDay(ctx context.Context, cluster plan_models.ActivityCluster, budget DayBudget,
	dayMeals map[plan_models.MealType]plan_models.MealAssignment, hotel *plan_models.Accommodation, mode string) plan_models.DaySchedule {

	day := plan_models.DaySchedule{Day: cluster.Day}
	cursor := int(budget.StartHour * 60)

	points := make([]MatrixPoint, 0, len(cluster.Activities)+1)
	if hotel != nil {
		points = append(points, MatrixPoint{ID: hotel.ID, Coords: hotel.Coords})
	}
	for _, a := range cluster.Activities {
		points = append(points, MatrixPoint{ID: a.ID, Coords: a.Coords})
	}
	matrix, err := s.matrix.ComputeDistances(ctx, points, mode)
	if err != nil {
		matrix = DistanceMatrix{}
	}

	if m, ok := dayMeals[plan_models.MealBreakfast]; ok && m.Restaurant != nil {
		day.Items = append(day.Items, mealItem(m, cursor, breakfastMinutes))
		cursor += breakfastMinutes
	}

	prevID := ""
	if hotel != nil {
		prevID = hotel.ID
	}
	lunchPlaced := false

	for _, a := range cluster.Activities {
		if !lunchPlaced && cursor >= lunchEarliest {
			if m, ok := dayMeals[plan_models.MealLunch]; ok && m.Restaurant != nil {
				day.Items = append(day.Items, mealItem(m, cursor, lunchMinutes))
				cursor += lunchMinutes
			}
			lunchPlaced = true
		}

		cursor += legMinutes(matrix, prevID, a.ID)
		day.Items = append(day.Items, plan_models.ScheduleItem{
			Kind:       "activity",
			StartTime:  minutesToClock(cursor),
			EndTime:    minutesToClock(cursor + a.DurationMinutes),
			Title:      a.Name,
			ActivityID: a.ID,
			Coords:     a.Coords,
		})
		cursor += a.DurationMinutes
		prevID = a.ID
	}

	if !lunchPlaced {
		if m, ok := dayMeals[plan_models.MealLunch]; ok && m.Restaurant != nil && cursor >= lunchEarliest-90 {
			day.Items = append(day.Items, mealItem(m, maxInt(cursor, lunchEarliest), lunchMinutes))
			cursor = maxInt(cursor, lunchEarliest) + lunchMinutes
		}
	}

	if m, ok := dayMeals[plan_models.MealDinner]; ok && m.Restaurant != nil {
		start := maxInt(cursor, dinnerEarliest)
		day.Items = append(day.Items, mealItem(m, start, dinnerMinutes))
	}
	return day
}

func mealItem(m plan_models.MealAssignment, startMinutes, duration int) plan_models.ScheduleItem {
	return plan_models.ScheduleItem{
		Kind:      string(m.Meal),
		StartTime: minutesToClock(startMinutes),
		EndTime:   minutesToClock(startMinutes + duration),
		Title:     m.Restaurant.Name,
		Coords:    m.Restaurant.Coords,
	}
}

func legMinutes(matrix DistanceMatrix, fromID, toID string) int {
	if fromID == "" {
		return 0
	}
	if edges, ok := matrix[fromID]; ok {
		if edge, ok := edges[toID]; ok {
			return edge.TravelMinutes
		}
	}
	return 0
}

func indexMeals(meals []plan_models.MealAssignment) map[int]map[plan_models.MealType]plan_models.MealAssignment {
	byDay := make(map[int]map[plan_models.MealType]plan_models.MealAssignment)
	for _, m := range meals {
		if byDay[m.Day] == nil {
			byDay[m.Day] = make(map[plan_models.MealType]plan_models.MealAssignment)
		}
		byDay[m.Day][m.Meal] = m
	}
	return byDay
}

func minutesToClock(total int) string {
	if total >= 24*60 {
		total = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
