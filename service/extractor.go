package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"caseatlas-backend/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Extractor runs the two model-backed stages of the extraction pipeline
type Extractor interface {
	// Analyze extracts facts, issues, reasonings and outcomes from opinion text
	Analyze(ctx context.Context, opinion string) (*models.Analysis, error)

	// Classify derives the case type and typed attributes from a stage 1 analysis
	Classify(ctx context.Context, analysis *models.Analysis) (*models.Classification, error)
}

var ErrExtractionFailed = errors.New("failed to extract case data")

const (
	maxRetries     = 3
	initialBackoff = time.Second
	maxPromptChars = 200000
)

const analysisPrompt = `
Extract facts, identify legal issues, analyze reasonings, and determine conclusions from this case:

%s
`

const classificationPrompt = `
You are given the facts, legal issues, reasonings, and outcomes from a case.
Classify the case as criminal or civil, then return JSON that matches the schema.
Set only the matching object (criminal or civil) and set the other to null.
Include the legal issues from the input in the output.
For outcome_category, select the most appropriate category for filtering similar cases.
For outcome_details, include specifics like sentence length, damages awarded, or other relevant outcome information.

Facts, issues, reasonings, and outcomes:
%s
`

// GeminiExtractor implements Extractor on the Gemini API with schema constrained JSON output
type GeminiExtractor struct {
	analysisModel       *genai.GenerativeModel
	classificationModel *genai.GenerativeModel
	logger              *zap.Logger
	backoff             time.Duration
}

// GeminiExtractorOption is a functional option for GeminiExtractor
type GeminiExtractorOption func(*GeminiExtractor)

// ExtractorWithLogger sets the logger
func ExtractorWithLogger(logger *zap.Logger) GeminiExtractorOption {
	return func(e *GeminiExtractor) {
		e.logger = logger
	}
}

// NewGeminiExtractor creates an extractor using the named model for both stages
func NewGeminiExtractor(client *genai.Client, modelName string, opts ...GeminiExtractorOption) *GeminiExtractor {
	e := &GeminiExtractor{
		analysisModel:       newJSONModel(client, modelName, analysisSchema()),
		classificationModel: newJSONModel(client, modelName, classificationSchema()),
		logger:              zap.NewNop(),
		backoff:             initialBackoff,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newJSONModel(client *genai.Client, modelName string, schema *genai.Schema) *genai.GenerativeModel {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema
	return model
}

// Analyze runs stage 1 over the full opinion text
func (e *GeminiExtractor) Analyze(ctx context.Context, opinion string) (*models.Analysis, error) {
	if strings.TrimSpace(opinion) == "" {
		return nil, fmt.Errorf("%w: case document has no opinion text", ErrExtractionFailed)
	}
	if len(opinion) > maxPromptChars {
		e.logger.Warn("opinion text truncated", zap.Int("chars", len(opinion)), zap.Int("limit", maxPromptChars))
		opinion = opinion[:maxPromptChars]
	}

	text, err := e.generate(ctx, e.analysisModel, fmt.Sprintf(analysisPrompt, opinion))
	if err != nil {
		return nil, err
	}
	return decodeAnalysis(text)
}

// Classify runs stage 2 over the JSON form of the analysis
func (e *GeminiExtractor) Classify(ctx context.Context, analysis *models.Analysis) (*models.Classification, error) {
	payload, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	text, err := e.generate(ctx, e.classificationModel, fmt.Sprintf(classificationPrompt, payload))
	if err != nil {
		return nil, err
	}
	return decodeClassification(text)
}

// generate calls the model with retry and exponential backoff
func (e *GeminiExtractor) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	var lastErr error
	backoff := e.backoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			lastErr = err
			e.logger.Warn("gemini request failed", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}

		text, err := responseText(resp)
		if err != nil {
			lastErr = err
			e.logger.Warn("gemini returned unusable response", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrExtractionFailed, maxRetries, lastErr)
}

// responseText joins the text parts of the first usable candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		var builder strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
		if out := strings.TrimSpace(builder.String()); out != "" {
			return out, nil
		}
	}

	return "", errors.New("no candidates with text")
}

// stripCodeFences removes a Markdown code fence wrapped around a JSON payload
func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if newline := strings.IndexByte(text, '\n'); newline >= 0 {
		text = text[newline+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func decodeAnalysis(text string) (*models.Analysis, error) {
	analysis := &models.Analysis{}
	if err := json.Unmarshal([]byte(stripCodeFences(text)), analysis); err != nil {
		return nil, fmt.Errorf("%w: invalid analysis JSON: %v", ErrExtractionFailed, err)
	}
	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return analysis, nil
}

func decodeClassification(text string) (*models.Classification, error) {
	classification := &models.Classification{}
	if err := json.Unmarshal([]byte(stripCodeFences(text)), classification); err != nil {
		return nil, fmt.Errorf("%w: invalid classification JSON: %v", ErrExtractionFailed, err)
	}
	classification.Normalize()
	return classification, nil
}

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"facts":      stringList("List of facts from the case."),
			"issues":     stringList("List of legal issues raised in the case."),
			"reasonings": stringList("List of reasonings from the case."),
			"outcomes":   {Type: genai.TypeString, Description: "Outcome of the case."},
		},
		Required: []string{"facts", "issues", "reasonings", "outcomes"},
	}
}

func classificationSchema() *genai.Schema {
	text := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}
	number := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeNumber, Description: description, Nullable: true}
	}

	criminal := &genai.Schema{
		Type:     genai.TypeObject,
		Nullable: true,
		Properties: map[string]*genai.Schema{
			"offense_severity":      text("Severity of the offense, e.g. Felony or Misdemeanor."),
			"charges":               stringList("Charges brought against the defendant."),
			"weapon_type":           text("Weapon involved, or None."),
			"victim_count":          number("Number of victims."),
			"evidence_types":        stringList("Kinds of evidence presented."),
			"aggravating_factors":   stringList("Aggravating factors considered."),
			"prior_record_severity": text("Severity of the defendant's prior record."),
		},
	}

	civil := &genai.Schema{
		Type:     genai.TypeObject,
		Nullable: true,
		Properties: map[string]*genai.Schema{
			"cause_of_action":           text("Cause of action, e.g. Negligence."),
			"duty_of_care_source":       text("Source of the duty of care."),
			"breach_description":        text("How the duty was breached."),
			"proximate_causation_score": number("Strength of proximate causation between 0 and 1."),
			"damages_claimed":           number("Damages claimed in dollars."),
			"is_settlement":             {Type: genai.TypeBoolean, Nullable: true, Description: "Whether the case settled."},
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"case_type":        {Type: genai.TypeString, Enum: []string{"criminal", "civil"}},
			"criminal":         criminal,
			"civil":            civil,
			"issues":           stringList("Legal issues from the input."),
			"outcome_category": text("Outcome category for filtering similar cases."),
			"outcome_details":  text("Specifics such as sentence length or damages awarded."),
		},
		Required: []string{"case_type", "issues", "outcome_category", "outcome_details"},
	}
}
