package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripweaver/internal/models/plan_models"
	"tripweaver/pkg/utils"
)

// stubAIClient scripts the model's answer for theming tests.
type stubAIClient struct {
	response string
	err      error
	calls    int
}

func (s *stubAIClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector(make([]float32, utils.EmbeddingDimensions)), nil
}

func (s *stubAIClient) GenerateDayThemesJSON(ctx context.Context, destination string, days []utils.DayThemeInput) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func themingClusters() []plan_models.ActivityCluster {
	return []plan_models.ActivityCluster{
		dayCluster(1,
			timed("t1", 60, 10, false),
			timed("t2", 60, 9, false)),
		dayCluster(2,
			timed("t3", 60, 8, false)),
	}
}

func TestThemeDaysAppliesModelOrdering(t *testing.T) {
	response, _ := json.Marshal(map[string]interface{}{
		"days": []map[string]interface{}{
			{"day": 1, "theme": "Grand museums", "activity_ids": []string{"t2", "t1"}},
			{"day": 2, "theme": "Riverside stroll", "activity_ids": []string{"t3"}},
		},
	})
	svc := NewThemingService(&stubAIClient{response: string(response)})
	audit := plan_models.NewPlanAudit()

	themes, clusters := svc.ThemeDays(context.Background(), "Paris", themingClusters(), nil, audit)

	assert.Equal(t, "Grand museums", themes[1])
	assert.Equal(t, "Riverside stroll", themes[2])
	require.Len(t, clusters[0].Activities, 2)
	assert.Equal(t, "t2", clusters[0].Activities[0].ID, "model ordering is applied")
	assert.False(t, audit.HasCode(plan_models.WarnThemingFallback))
}

func TestThemeDaysFallsBackWhenModelFails(t *testing.T) {
	svc := NewThemingService(&stubAIClient{err: errors.New("quota exceeded")})
	audit := plan_models.NewPlanAudit()
	input := themingClusters()

	themes, clusters := svc.ThemeDays(context.Background(), "Paris", input, nil, audit)

	assert.True(t, audit.HasCode(plan_models.WarnThemingFallback))
	assert.NotEmpty(t, themes[1])
	assert.NotEmpty(t, themes[2])
	assert.Equal(t, plan_models.ActivityIDs(input), plan_models.ActivityIDs(clusters))
}

func TestThemeDaysRejectsInventedActivities(t *testing.T) {
	response, _ := json.Marshal(map[string]interface{}{
		"days": []map[string]interface{}{
			{"day": 1, "theme": "Hallucinated day", "activity_ids": []string{"t1", "made-up"}},
			{"day": 2, "theme": "Fine day", "activity_ids": []string{"t3"}},
		},
	})
	svc := NewThemingService(&stubAIClient{response: string(response)})
	audit := plan_models.NewPlanAudit()
	input := themingClusters()

	_, clusters := svc.ThemeDays(context.Background(), "Paris", input, nil, audit)

	assert.True(t, audit.HasCode(plan_models.WarnThemingFallback),
		"a response naming unknown activities is rejected wholesale")
	assert.Equal(t, plan_models.ActivityIDs(input), plan_models.ActivityIDs(clusters))
}

func TestThemeDaysRejectsDroppedActivities(t *testing.T) {
	response, _ := json.Marshal(map[string]interface{}{
		"days": []map[string]interface{}{
			{"day": 1, "theme": "Short day", "activity_ids": []string{"t1"}},
			{"day": 2, "theme": "Fine day", "activity_ids": []string{"t3"}},
		},
	})
	svc := NewThemingService(&stubAIClient{response: string(response)})
	audit := plan_models.NewPlanAudit()

	_, clusters := svc.ThemeDays(context.Background(), "Paris", themingClusters(), nil, audit)

	assert.True(t, audit.HasCode(plan_models.WarnThemingFallback))
	assert.Len(t, clusters[0].Activities, 2)
}

func TestThemeDaysRetriesOnce(t *testing.T) {
	stub := &stubAIClient{err: errors.New("transient")}
	svc := NewThemingService(stub)
	audit := plan_models.NewPlanAudit()

	svc.ThemeDays(context.Background(), "Paris", themingClusters(), nil, audit)

	assert.Equal(t, 2, stub.calls)
}

func TestDeterministicThemesNameTheDominantCategory(t *testing.T) {
	svc := NewThemingService(nil)
	audit := plan_models.NewPlanAudit()

	museum := timed("m1", 60, 10, false)
	museum.Category = "museum"
	museum2 := timed("m2", 60, 9, false)
	museum2.Category = "museum"
	park := timed("p1", 60, 8, false)
	park.Category = "park"

	themes, _ := svc.ThemeDays(context.Background(), "Paris",
		[]plan_models.ActivityCluster{dayCluster(1, museum, museum2, park)}, nil, audit)

	assert.Equal(t, "Museum highlights", themes[1])
}
