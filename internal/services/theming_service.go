package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

const (
	themingTimeout  = 20 * time.Second
	themingAttempts = 2
)

type ThemingServiceInterface interface {
	// ThemeDays names each day and reorders its activities into a visiting
	// order. The model is advisory only: any failure or any response that
	// does not preserve the exact activity set falls back to deterministic
	// theming, recorded on the audit.
	ThemeDays(ctx context.Context, destination string, clusters []plan_models.ActivityCluster,
		hotel *plan_models.Accommodation, audit *plan_models.PlanAudit) (map[int]string, []plan_models.ActivityCluster)
}

type themingService struct {
	aiClient utils.AIClientInterface
}

func NewThemingService(aiClient utils.AIClientInterface) ThemingServiceInterface {
	return &themingService{aiClient: aiClient}
}

type themedDay struct {
	Day         int      `json:"day"`
	Theme       string   `json:"theme"`
	ActivityIDs []string `json:"activity_ids"`
}

type themingResponse struct {
	Days []themedDay `json:"days"`
}

func (s *themingService) ThemeDays(ctx context.Context, destination string, clusters []plan_models.ActivityCluster,
	hotel *plan_models.Accommodation, audit *plan_models.PlanAudit) (map[int]string, []plan_models.ActivityCluster) {

	if len(clusters) == 0 {
		return map[int]string{}, clusters
	}

	if s.aiClient != nil {
		themes, reordered, ok := s.themeWithModel(ctx, destination, clusters)
		if ok {
			return themes, reordered
		}
		audit.Add(plan_models.WarnThemingFallback, "", "model theming unusable, using deterministic themes")
	}

	return s.themeDeterministic(clusters, hotel)
}

func (s *themingService) themeWithModel(ctx context.Context, destination string, clusters []plan_models.ActivityCluster) (map[int]string, []plan_models.ActivityCluster, bool) {
	input := make([]utils.DayThemeInput, 0, len(clusters))
	for _, c := range clusters {
		day := utils.DayThemeInput{Day: c.Day}
		for _, a := range c.Activities {
			day.Activities = append(day.Activities, utils.ActivitySummary{
				ID:       a.ID,
				Name:     a.Name,
				Category: a.Category,
			})
		}
		input = append(input, day)
	}

	var raw string
	var err error
	for attempt := 0; attempt < themingAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, themingTimeout)
		raw, err = s.aiClient.GenerateDayThemesJSON(callCtx, destination, input)
		cancel()
		if err == nil {
			break
		}
		log.Printf("theming attempt %d failed: %v", attempt+1, err)
	}
	if err != nil {
		return nil, nil, false
	}

	var parsed themingResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("theming response unmarshal failed: %v", err)
		return nil, nil, false
	}

	return applyThemedDays(clusters, parsed)
}

// applyThemedDays checks that the model returned every day with exactly the
// activities it was given, then applies the ordering. One bad day rejects
// the whole response so themes stay consistent.
func applyThemedDays(clusters []plan_models.ActivityCluster, parsed themingResponse) (map[int]string, []plan_models.ActivityCluster, bool) {
	byDay := make(map[int]themedDay, len(parsed.Days))
	for _, d := range parsed.Days {
		byDay[d.Day] = d
	}

	themes := make(map[int]string, len(clusters))
	out := make([]plan_models.ActivityCluster, len(clusters))

	for i, c := range clusters {
		d, ok := byDay[c.Day]
		if !ok || strings.TrimSpace(d.Theme) == "" {
			return nil, nil, false
		}
		if len(d.ActivityIDs) != len(c.Activities) {
			return nil, nil, false
		}

		index := make(map[string]plan_models.ScoredActivity, len(c.Activities))
		for _, a := range c.Activities {
			index[a.ID] = a
		}

		ordered := make([]plan_models.ScoredActivity, 0, len(d.ActivityIDs))
		for _, id := range d.ActivityIDs {
			a, found := index[id]
			if !found {
				return nil, nil, false
			}
			delete(index, id)
			ordered = append(ordered, a)
		}

		out[i] = c
		out[i].Activities = ordered
		themes[c.Day] = strings.TrimSpace(d.Theme)
	}

	return themes, out, true
}

// themeDeterministic names each day after its dominant category and walks
// the activities nearest-neighbor from the hotel (or the day centroid when
// no hotel was selected).
func (s *themingService) themeDeterministic(clusters []plan_models.ActivityCluster, hotel *plan_models.Accommodation) (map[int]string, []plan_models.ActivityCluster) {
	themes := make(map[int]string, len(clusters))
	out := make([]plan_models.ActivityCluster, len(clusters))

	for i, c := range clusters {
		out[i] = c
		start := c.Centroid
		if hotel != nil && hotel.Coords.IsValid() {
			start = hotel.Coords
		}
		out[i].Activities = orderNearestNeighbor(c.Activities, start)
		themes[c.Day] = dominantCategoryTheme(c.Activities)
	}

	return themes, out
}

func dominantCategoryTheme(activities []plan_models.ScoredActivity) string {
	if len(activities) == 0 {
		return "Free day"
	}

	counts := make(map[string]int)
	best := ""
	for _, a := range activities {
		cat := strings.ToLower(strings.TrimSpace(a.Category))
		if cat == "" {
			cat = "sightseeing"
		}
		counts[cat]++
		if best == "" || counts[cat] > counts[best] {
			best = cat
		}
	}

	return titleCase(best) + " highlights"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orderNearestNeighbor(activities []plan_models.ScoredActivity, start plan_models.Coordinates) []plan_models.ScoredActivity {
	remaining := append([]plan_models.ScoredActivity(nil), activities...)
	ordered := make([]plan_models.ScoredActivity, 0, len(remaining))
	current := start

	for len(remaining) > 0 {
		bestIdx := 0
		bestDist := utils.HaversineKm(current, remaining[0].Coords)
		for i := 1; i < len(remaining); i++ {
			d := utils.HaversineKm(current, remaining[i].Coords)
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		next := remaining[bestIdx]
		ordered = append(ordered, next)
		current = next.Coords
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return ordered
}
