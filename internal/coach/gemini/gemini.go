// Package gemini implements the coach provider on top of Google's
// generative models, with schema constrained JSON responses.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/goals"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/internal/users"
	"github.com/2beens/fitcoach/internal/weeks"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

const (
	// DefaultModelID is used when no model is configured.
	DefaultModelID = "gemini-2.5-flash-lite"
	// DefaultTimeout bounds a single model invocation. Generations are
	// slow, minutes are normal.
	DefaultTimeout = 5 * time.Minute
)

// invocation stages, used as metric labels
const (
	stageSuggest      = "suggest"
	stageTitle        = "title"
	stageWeek         = "week"
	stageGoalAnalysis = "goal_analysis"
)

var _ coach.Provider = (*Provider)(nil)

type Provider struct {
	client         *genai.Client
	modelID        string
	timeout        time.Duration
	metricsManager *metrics.Manager
}

// NewClient builds the underlying API client. The client is safe for
// concurrent use, one instance serves all generations. A nil httpClient
// falls back to the SDK default.
func NewClient(ctx context.Context, apiKey string, httpClient *http.Client) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

// NewProvider builds a coach provider backed by the given client. An empty
// model id and a zero timeout fall back to the defaults.
func NewProvider(
	client *genai.Client,
	modelID string,
	timeout time.Duration,
	metricsManager *metrics.Manager,
) *Provider {
	if modelID == "" {
		modelID = DefaultModelID
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Provider{
		client:         client,
		modelID:        modelID,
		timeout:        timeout,
		metricsManager: metricsManager,
	}
}

// GenerateWorkout runs the three stage pipeline: exercise suggestions from
// the model, deterministic expansion into sets, then a second model call
// for title and headline. A failure in any stage aborts the whole run, no
// partial workout is ever returned.
func (p *Provider) GenerateWorkout(
	ctx context.Context,
	user users.User,
	userGoals []goals.Goal,
	existingWorkouts []weeks.Workout,
) (_ *weeks.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gemini.generateWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	prompt, err := coach.SuggestionPrompt(user, userGoals, existingWorkouts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", coach.ErrInvalidInput, err)
	}

	raw, err := p.invoke(ctx, stageSuggest, "", prompt, suggestionListSchema)
	if err != nil {
		return nil, err
	}
	suggestions, err := coach.ParseSuggestions(raw)
	if err != nil {
		return nil, err
	}
	log.Debugf("workout generation for user %s: %d exercises suggested", user.ID, len(suggestions))

	sets := coach.ExpandSuggestions(suggestions)

	titles := make([]string, 0, len(existingWorkouts))
	for _, workout := range existingWorkouts {
		titles = append(titles, workout.Title)
	}
	titlePrompt, err := coach.TitleHeadlinePrompt(sets, titles)
	if err != nil {
		return nil, err
	}

	raw, err = p.invoke(ctx, stageTitle, "", titlePrompt, titleHeadlineSchema)
	if err != nil {
		return nil, err
	}
	title, headline, err := coach.ParseTitleHeadline(raw)
	if err != nil {
		return nil, err
	}

	return &weeks.Workout{
		ID:       uuid.New(),
		Title:    title,
		Headline: headline,
		Date:     time.Now(),
		Sets:     sets,
	}, nil
}

// GenerateWeek asks for the whole week in a single call. The model fills in
// every set directly, so there is no expansion step, only the parser's
// midpoint fallback for values it leaves out.
func (p *Provider) GenerateWeek(
	ctx context.Context,
	user users.User,
	userGoals []goals.Goal,
) (_ []weeks.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gemini.generateWeek")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := p.invoke(ctx, stageWeek, "", coach.WeekPrompt(user, userGoals), weekListSchema)
	if err != nil {
		return nil, err
	}
	return coach.ParseWeek(raw)
}

// AnalyzeGoalProgress estimates progress towards one goal from a completed
// workout, as a handful of data points.
func (p *Provider) AnalyzeGoalProgress(
	ctx context.Context,
	goal goals.Goal,
	workout weeks.Workout,
) (_ []goals.DataPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gemini.analyzeGoalProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := p.invoke(ctx, stageGoalAnalysis, "", coach.GoalAnalysisPrompt(goal, workout), dataPointListSchema)
	if err != nil {
		return nil, err
	}
	return coach.ParseDataPoints(raw)
}

// invoke runs one schema constrained model call and returns the raw JSON
// text, parsing is the caller's business. An empty modelID falls back to
// the provider's configured model.
func (p *Provider) invoke(ctx context.Context, stage, modelID, prompt string, schema *genai.Schema) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "gemini.invoke")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if modelID == "" {
		modelID = p.modelID
	}
	span.SetAttributes(
		attribute.String("stage", stage),
		attribute.String("model", modelID),
	)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, modelID, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	elapsed := time.Since(start)
	if p.metricsManager != nil {
		p.metricsManager.HistModelCallDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	}

	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return "", fmt.Errorf("%w: %s stage gave up after %s", coach.ErrTimeout, stage, p.timeout)
		case errors.Is(err, context.Canceled):
			// an abandoned generation, nothing to compensate for
			return "", err
		default:
			return "", fmt.Errorf("%w: %s", coach.ErrProvider, err)
		}
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", coach.ErrMalformedResponse)
	}

	log.Tracef("model call [%s] done in %s, %d bytes of response", stage, elapsed, len(text))
	return text, nil
}
