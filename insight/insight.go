package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"salescast/forecasting"
	"salescast/models"
)

// ErrDisabled is returned when no Gemini API key is configured.
var ErrDisabled = errors.New("forecast insight is not configured")

// historyDays is how much recent history goes into the prompt.
const historyDays = 90

// Request carries everything the narrative is based on. All numbers are
// computed by the forecasting pipeline; the model only explains them.
type Request struct {
	DatasetName string
	History     forecasting.DailySeries
	Forecast    []forecasting.ForecastRecord
	Frequency   forecasting.Frequency
	RMSE        *float64
	Today       time.Time
}

// Summarizer turns a forecast into a short qualitative reading.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (*models.ForecastInsight, error)
}

// Client is a Summarizer backed by the Gemini API.
type Client struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Client {
	return &Client{APIKey: apiKey, Model: model}
}

func (c *Client) Summarize(ctx context.Context, req Request) (*models.ForecastInsight, error) {
	if c == nil || c.APIKey == "" {
		return nil, ErrDisabled
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.Model)
	model.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockNone,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockNone,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockNone,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockNone,
		},
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return parseResponse(resp)
}

// BuildPrompt renders the analysis prompt for a forecast.
func BuildPrompt(req Request) string {
	today := req.Today
	if today.IsZero() {
		today = time.Now()
	}

	history := req.History
	if len(history) > historyDays {
		history = history[len(history)-historyDays:]
	}

	var hist strings.Builder
	for _, d := range history {
		fmt.Fprintf(&hist, "On %s, total sales were %.2f.\n", d.Date.Format(forecasting.DateLayout), d.TotalSales)
	}
	if hist.Len() == 0 {
		hist.WriteString("No historical sales data available.\n")
	}

	var fc strings.Builder
	for _, r := range req.Forecast {
		fmt.Fprintf(&fc, "%s: %.2f\n", r.Date.Format(forecasting.DateLayout), r.ForecastedSales)
	}

	accuracy := "not evaluated"
	if req.RMSE != nil {
		accuracy = fmt.Sprintf("RMSE %.4f on the held-out most recent days", *req.RMSE)
	}

	jsonFormat := `{"summary":"string","positive_factors":["string",...],"negative_factors":["string",...]}`

	return fmt.Sprintf(`
        You are an expert retail data analyst. A gradient-boosted model has already produced the sales forecast below. Do not change or recompute the numbers; explain them.

        **Analysis Context:**
        - Dataset: %s
        - Forecast frequency: %s
        - Forecast periods: %d
        - Model accuracy: %s
        - Today's Date: %s

        **Historical Daily Sales (most recent %d days at most):**
        %s
        **Forecast:**
        %s
        **Required Output:**
        You must provide a single, minified JSON object with the following exact structure. Do not include any markdown formatting, backticks, or explanatory text before or after the JSON object.

        %s
    `, req.DatasetName, req.Frequency, len(req.Forecast), accuracy, today.Format(forecasting.DateLayout),
		historyDays, hist.String(), fc.String(), jsonFormat)
}

func extractJSON(rawString string) string {
	start := strings.Index(rawString, "{")
	end := strings.LastIndex(rawString, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return rawString[start : end+1]
}

func parseResponse(resp *genai.GenerateContentResponse) (*models.ForecastInsight, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content received from AI")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return parseText(text.String())
}

func parseText(geminiText string) (*models.ForecastInsight, error) {
	if geminiText == "" {
		return nil, fmt.Errorf("no text content received from AI")
	}

	jsonStr := extractJSON(geminiText)
	if jsonStr == "" {
		log.Warn().Str("raw", geminiText).Msg("🤖 [INSIGHT] Could not extract JSON from Gemini response")
		return nil, fmt.Errorf("failed to parse AI response format")
	}

	var out models.ForecastInsight
	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		log.Warn().Err(err).Str("raw", jsonStr).Msg("🤖 [INSIGHT] Error parsing Gemini JSON")
		return nil, fmt.Errorf("failed to parse AI insight: %w", err)
	}
	if out.PositiveFactors == nil {
		out.PositiveFactors = []string{}
	}
	if out.NegativeFactors == nil {
		out.NegativeFactors = []string{}
	}
	return &out, nil
}
