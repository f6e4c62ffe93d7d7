package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/framework"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
)

// fakeFeedbackRepo is an in-memory FeedbackRepository
type fakeFeedbackRepo struct {
	entries map[primitive.ObjectID][]models.Feedback
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{entries: make(map[primitive.ObjectID][]models.Feedback)}
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.BeforeCreate()
	r.entries[feedback.SurveyID] = append(r.entries[feedback.SurveyID], *feedback)
	return nil
}

func (r *fakeFeedbackRepo) ReplaceForSurvey(ctx context.Context, surveyID primitive.ObjectID, entries []models.Feedback) error {
	r.entries[surveyID] = append([]models.Feedback{}, entries...)
	return nil
}

func (r *fakeFeedbackRepo) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Feedback, error) {
	return r.entries[surveyID], nil
}

func floatPtr(f float64) *float64 { return &f }

func TestFormatSurveyPrompt(t *testing.T) {
	survey := &models.Survey{
		RoleLevel:    models.UserRoleBranch,
		Period:       "2025-07",
		OverallScore: 72.46,
	}
	responses := []models.Response{
		{QuestionID: 1, RawValue: floatPtr(4), Score: floatPtr(80)},
		{QuestionID: 2}, // unanswered, must be skipped
		{QuestionID: 3, RawValue: floatPtr(2), Score: floatPtr(40)},
	}

	prompt := FormatSurveyPrompt(survey, responses)

	if !strings.HasPrefix(prompt, "Level: branch\nPeriod: 2025-07\nOverall: 72.5") {
		t.Errorf("unexpected prompt header:\n%s", prompt)
	}

	flat, err := framework.Flatten(models.UserRoleBranch)
	if err != nil {
		t.Fatal(err)
	}
	wantQ1 := fmt.Sprintf("\nQ1: %s -> score=80.0", flat[0].Text)
	wantQ3 := fmt.Sprintf("\nQ3: %s -> score=40.0", flat[2].Text)
	if !strings.Contains(prompt, wantQ1) {
		t.Errorf("prompt missing %q:\n%s", wantQ1, prompt)
	}
	if !strings.Contains(prompt, wantQ3) {
		t.Errorf("prompt missing %q:\n%s", wantQ3, prompt)
	}
	if strings.Contains(prompt, "Q2:") {
		t.Error("unanswered question leaked into the prompt")
	}
}

func TestGenerateForSurveyStoresOverallRow(t *testing.T) {
	repo := newFakeFeedbackRepo()
	client := &MockFeedbackClient{MockText: "Focus on delivery timeliness."}
	svc := NewFeedbackService(client, repo)

	survey := &models.Survey{
		ID:           primitive.NewObjectID(),
		RoleLevel:    models.UserRoleZone,
		Period:       "2025-07",
		OverallScore: 65,
	}
	if err := svc.GenerateForSurvey(context.Background(), survey, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, _ := repo.ListBySurvey(context.Background(), survey.ID)
	if len(entries) != 1 {
		t.Fatalf("expected exactly one feedback row, got %d", len(entries))
	}
	got := entries[0]
	if got.Level != models.FeedbackLevelOverall {
		t.Errorf("expected overall level, got %s", got.Level)
	}
	if got.Text != "Focus on delivery timeliness." {
		t.Errorf("unexpected text %q", got.Text)
	}
	if got.PromptHash == "" {
		t.Error("prompt hash not recorded")
	}
	if len(client.Prompts) != 1 {
		t.Fatalf("expected one client call, got %d", len(client.Prompts))
	}
}

func TestGenerateForSurveyFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		client *MockFeedbackClient
	}{
		{"producer error", &MockFeedbackClient{MockErr: errors.New("upstream down")}},
		{"empty completion", &MockFeedbackClient{MockText: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeFeedbackRepo()
			svc := NewFeedbackService(tt.client, repo)

			survey := &models.Survey{
				ID:           primitive.NewObjectID(),
				RoleLevel:    models.UserRoleCity,
				Period:       "2025-06",
				OverallScore: 40,
			}
			if err := svc.GenerateForSurvey(context.Background(), survey, nil); err != nil {
				t.Fatalf("generation must not fail the caller: %v", err)
			}
			entries, _ := repo.ListBySurvey(context.Background(), survey.ID)
			if len(entries) != 1 || entries[0].Text != FallbackFeedback {
				t.Errorf("expected fallback text row, got %+v", entries)
			}
		})
	}
}

func TestGenerateForSurveyReplacesPrevious(t *testing.T) {
	repo := newFakeFeedbackRepo()
	client := &MockFeedbackClient{MockText: "first"}
	svc := NewFeedbackService(client, repo)

	survey := &models.Survey{
		ID:           primitive.NewObjectID(),
		RoleLevel:    models.UserRoleRegion,
		Period:       "2025-05",
		OverallScore: 55,
	}
	if err := svc.GenerateForSurvey(context.Background(), survey, nil); err != nil {
		t.Fatal(err)
	}
	client.MockText = "second"
	if err := svc.GenerateForSurvey(context.Background(), survey, nil); err != nil {
		t.Fatal(err)
	}

	entries, _ := repo.ListBySurvey(context.Background(), survey.ID)
	if len(entries) != 1 {
		t.Fatalf("resubmission must leave a single row, got %d", len(entries))
	}
	if entries[0].Text != "second" {
		t.Errorf("expected latest text, got %q", entries[0].Text)
	}
}
