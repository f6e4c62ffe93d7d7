// Package services provides business logic implementations.
package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/framework"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/models"
	"github.com/arupmahatha-dtdc/logistics-health-assessment-system/internal/repository"
)

// Custom errors for feedback service
var (
	ErrFeedbackAPIError    = errors.New("feedback API error")
	ErrFeedbackRateLimited = errors.New("feedback API rate limited")
)

// FallbackFeedback is stored when the feedback API is unavailable or fails.
// #BUSINESS_RULE: Feedback is best-effort and never blocks a submission
const FallbackFeedback = "Based on scores, prioritize low-scoring categories and maintain strengths."

// systemPrompt frames the model as a domain reviewer of KPI results
const systemPrompt = "You are a logistics operations expert. Analyze KPI survey responses and provide actionable feedback."

// FeedbackClient defines the interface for feedback text generation
// #INTEGRATION_POINT: External OpenAI-compatible chat completions API
type FeedbackClient interface {
	// Generate produces feedback text for a formatted survey prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier used for generation
	Model() string
}

// FeedbackService produces and stores AI feedback for submitted surveys
// #INTEGRATION_POINT: Invoked by SurveyService after the score transaction commits
type FeedbackService interface {
	// GenerateForSurvey builds the prompt for a survey, calls the feedback
	// client, and replaces any previous feedback rows for that survey
	GenerateForSurvey(ctx context.Context, survey *models.Survey, responses []models.Response) error

	// ListForSurvey returns the stored feedback entries for a survey
	ListForSurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Feedback, error)
}

// feedbackService implements FeedbackService
type feedbackService struct {
	client       FeedbackClient
	feedbackRepo repository.FeedbackRepository
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(client FeedbackClient, feedbackRepo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{
		client:       client,
		feedbackRepo: feedbackRepo,
	}
}

// GenerateForSurvey builds the prompt, calls the client, and stores the result.
// A client failure stores the static fallback text instead of propagating:
// scores are already committed and must not appear to fail.
func (s *feedbackService) GenerateForSurvey(ctx context.Context, survey *models.Survey, responses []models.Response) error {
	prompt := FormatSurveyPrompt(survey, responses)

	text, err := s.client.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		text = FallbackFeedback
	}

	hash := sha256.Sum256([]byte(prompt))
	entry := models.Feedback{
		SurveyID:   survey.ID,
		Level:      models.FeedbackLevelOverall,
		Text:       text,
		Model:      s.client.Model(),
		PromptHash: hex.EncodeToString(hash[:]),
	}

	return s.feedbackRepo.ReplaceForSurvey(ctx, survey.ID, []models.Feedback{entry})
}

// ListForSurvey returns the stored feedback entries for a survey
func (s *feedbackService) ListForSurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Feedback, error) {
	return s.feedbackRepo.ListBySurvey(ctx, surveyID)
}

// FormatSurveyPrompt renders a survey and its answered questions into the
// prompt consumed by the feedback model: level and period header, overall
// score, then one line per answered question.
func FormatSurveyPrompt(survey *models.Survey, responses []models.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level: %s\n", strings.ToLower(string(survey.RoleLevel)))
	fmt.Fprintf(&b, "Period: %s\n", survey.Period)
	fmt.Fprintf(&b, "Overall: %.1f", survey.OverallScore)

	flat, _ := framework.Flatten(survey.RoleLevel)
	for _, r := range responses {
		if r.Score == nil {
			continue
		}
		text := ""
		if r.QuestionID >= 1 && r.QuestionID <= len(flat) {
			text = flat[r.QuestionID-1].Text
		}
		fmt.Fprintf(&b, "\nQ%d: %s -> score=%.1f", r.QuestionID, text, *r.Score)
	}
	return b.String()
}

// chatRequest is the OpenAI-compatible chat completions request body
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the completions response we consume
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// HTTPFeedbackClient implements FeedbackClient against an OpenAI-compatible
// chat completions endpoint (DeepSeek and OpenAI both expose this shape)
type HTTPFeedbackClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	httpClient *http.Client
}

// NewHTTPFeedbackClient creates a new HTTP-based feedback client
func NewHTTPFeedbackClient(baseURL, apiKey, model string, maxRetries int, timeout time.Duration) *HTTPFeedbackClient {
	return &HTTPFeedbackClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxRetries: maxRetries,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model returns the configured model identifier
func (c *HTTPFeedbackClient) Model() string {
	return c.model
}

// Generate calls the chat completions endpoint with bounded retries.
// #IMPLEMENTATION_DECISION: Exponential backoff on 429 and 5xx; 4xx other
// than 429 is a caller error and never retried
func (c *HTTPFeedbackClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	backoff := time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !errors.Is(err, ErrFeedbackRateLimited) && !errors.Is(err, ErrFeedbackAPIError) {
			return "", err
		}
	}

	return "", lastErr
}

func (c *HTTPFeedbackClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFeedbackAPIError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrFeedbackRateLimited
	case resp.StatusCode >= 500:
		return "", ErrFeedbackAPIError
	case resp.StatusCode != http.StatusOK:
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("feedback API status %d: %s", resp.StatusCode, string(payload))
	}

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(data.Choices) == 0 {
		return "", fmt.Errorf("feedback API returned no choices")
	}

	return data.Choices[0].Message.Content, nil
}

// MockFeedbackClient is a mock implementation for development/testing
type MockFeedbackClient struct {
	MockText string
	MockErr  error
	Prompts  []string
}

// NewMockFeedbackClient creates a mock feedback client
func NewMockFeedbackClient() *MockFeedbackClient {
	return &MockFeedbackClient{
		MockText: "Focus on the lowest scoring category this period.",
	}
}

// Generate returns the mock text and records the prompt
func (c *MockFeedbackClient) Generate(ctx context.Context, prompt string) (string, error) {
	c.Prompts = append(c.Prompts, prompt)
	if c.MockErr != nil {
		return "", c.MockErr
	}
	return c.MockText, nil
}

// Model returns the mock model identifier
func (c *MockFeedbackClient) Model() string {
	return "mock"
}
