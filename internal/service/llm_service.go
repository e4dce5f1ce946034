package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	appconfig "github.com/dtvinh/mathtutor/config"
	"github.com/dtvinh/mathtutor/internal/model"
	"github.com/rs/zerolog/log"
)

// generationTimeout bounds every engine call. A timeout is treated like any
// other engine failure: the caller gets the deterministic fallback.
const generationTimeout = 30 * time.Second

// ValidationResult is the verdict on one student answer. UsedAPI reports
// whether a live engine call produced it (false for string-match
// short-circuits and for fallbacks after engine failure).
type ValidationResult struct {
	IsCorrect bool
	Reasoning string
	UsedAPI   bool
}

// TextResult is generated text plus the accounting flag.
type TextResult struct {
	Text    string
	UsedAPI bool
}

// ProblemDraft is one generated problem from the similar-problem batch.
type ProblemDraft struct {
	Title            string   `json:"title"`
	ProblemText      string   `json:"problemText"`
	CorrectAnswer    string   `json:"correctAnswer"`
	AlternateAnswers []string `json:"alternateAnswers"`
}

// LLMService is the generation engine collaborator. Every student-facing
// method absorbs engine failures into a deterministic fallback so that a
// slow or down engine never fails a submission; only the admin-facing batch
// generation surfaces errors.
type LLMService interface {
	ValidateAnswer(ctx context.Context, problem *model.Problem, studentAnswer string) ValidationResult
	GenerateFeedback(ctx context.Context, problem *model.Problem, studentAnswer string, isCorrect bool, attemptNumber int) TextResult
	GenerateDynamicHint(ctx context.Context, problem *model.Problem, studentAnswer string, attemptNumber int) TextResult
	GenerateDetailedSolution(ctx context.Context, problem *model.Problem) TextResult
	GenerateSteps(ctx context.Context, problem *model.Problem) TextResult
	GenerateSimilarProblems(ctx context.Context, problem *model.Problem, count int) ([]ProblemDraft, error)
}

type claudeLLMService struct {
	client  *anthropic.Client
	configs PromptConfigService
}

// NewClaudeLLMService builds the Claude-backed engine. Without an API key
// the service still constructs but every call takes the fallback path.
func NewClaudeLLMService(cfg *appconfig.Config, configs PromptConfigService) LLMService {
	if cfg.AnthropicApiKey == "" {
		log.Warn().Msg("ANTHROPIC_API_KEY is not set. LLM service will serve fallback responses only.")
		return &claudeLLMService{configs: configs}
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicApiKey))
	return &claudeLLMService{client: &client, configs: configs}
}

var placeholderRe = regexp.MustCompile(`\$\{[^}]+\}`)

// interpolate substitutes ${name} placeholders. Placeholders with no
// matching variable are left in place and logged, mirroring how admin-built
// templates are debugged.
func interpolate(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, "${"+key+"}", value)
	}
	if unreplaced := placeholderRe.FindAllString(result, -1); len(unreplaced) > 0 {
		log.Warn().Strs("placeholders", unreplaced).Msg("Unreplaced variables in prompt template")
	}
	return result
}

// generate resolves the prompt config for key, interpolates the template
// and performs one bounded Claude call, returning the raw response text.
func (s *claudeLLMService) generate(ctx context.Context, key string, vars map[string]string) (string, error) {
	settings := s.configs.GetConfig(key)
	prompt := interpolate(settings.Template, vars)

	if s.client == nil {
		return "", fmt.Errorf("anthropic client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(settings.Model),
		MaxTokens:   int64(settings.MaxTokens),
		Temperature: anthropic.Float(settings.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude call for %q failed: %w", key, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("claude returned no text content for %q", key)
	}
	return text.String(), nil
}

// normalizeAnswer is the canonical comparison form: trimmed, lower-cased.
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// stripJSONFence removes a surrounding markdown code fence, which the model
// occasionally adds despite instructions.
func stripJSONFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// ValidateAnswer checks correctness: exact normalized match, then alternate
// answers, and only then the engine. On engine failure the verdict degrades
// to strict normalized equality so students are never blocked on engine
// downtime.
func (s *claudeLLMService) ValidateAnswer(ctx context.Context, problem *model.Problem, studentAnswer string) ValidationResult {
	student := normalizeAnswer(studentAnswer)
	correct := normalizeAnswer(problem.CorrectAnswer)

	if student == correct {
		return ValidationResult{IsCorrect: true, Reasoning: "Exact match with correct answer"}
	}
	for _, alt := range problem.AlternateAnswers {
		if student == normalizeAnswer(alt) {
			return ValidationResult{IsCorrect: true, Reasoning: "Match with alternate answer format"}
		}
	}

	raw, err := s.generate(ctx, appconfig.PromptValidateAnswer, map[string]string{
		"problemText":   problem.ProblemText,
		"correctAnswer": problem.CorrectAnswer,
		"studentAnswer": studentAnswer,
	})
	if err != nil {
		log.Error().Err(err).Uint("problemID", problem.ID).Msg("Validation call failed, falling back to strict comparison")
		return ValidationResult{
			IsCorrect: student == correct,
			Reasoning: "Fallback comparison due to service error",
		}
	}

	var parsed struct {
		IsCorrect bool   `json:"isCorrect"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &parsed); err != nil {
		log.Error().Err(err).Str("response", raw).Msg("Failed to parse validation response, falling back to strict comparison")
		return ValidationResult{
			IsCorrect: student == correct,
			Reasoning: "Fallback comparison due to service error",
		}
	}

	return ValidationResult{IsCorrect: parsed.IsCorrect, Reasoning: parsed.Reasoning, UsedAPI: true}
}

func (s *claudeLLMService) GenerateFeedback(ctx context.Context, problem *model.Problem, studentAnswer string, isCorrect bool, attemptNumber int) TextResult {
	key := appconfig.PromptFeedbackIncorrect
	if isCorrect {
		key = appconfig.PromptFeedbackCorrect
	}

	text, err := s.generate(ctx, key, map[string]string{
		"problemText":   problem.ProblemText,
		"studentAnswer": studentAnswer,
		"attemptNumber": strconv.Itoa(attemptNumber),
	})
	if err != nil {
		log.Error().Err(err).Uint("problemID", problem.ID).Msg("Feedback call failed, using static fallback")
		if isCorrect {
			return TextResult{Text: "Great job! You solved it correctly. Keep up the excellent work!"}
		}
		return TextResult{Text: "Not quite right. Take another look at your steps and try again. You've got this!"}
	}
	return TextResult{Text: strings.TrimSpace(text), UsedAPI: true}
}

func (s *claudeLLMService) GenerateDynamicHint(ctx context.Context, problem *model.Problem, studentAnswer string, attemptNumber int) TextResult {
	text, err := s.generate(ctx, appconfig.PromptDynamicHint, map[string]string{
		"problemText":   problem.ProblemText,
		"correctAnswer": problem.CorrectAnswer,
		"studentAnswer": studentAnswer,
		"attemptNumber": strconv.Itoa(attemptNumber),
		"difficulty":    problem.Difficulty,
	})
	if err != nil {
		log.Error().Err(err).Uint("problemID", problem.ID).Msg("Dynamic hint call failed, using static fallback")
		return TextResult{Text: "1. Review the problem carefully and identify what you need to find\n" +
			"2. Check each step of your calculation for arithmetic errors\n" +
			"3. Make sure you performed the correct operations in the right order\n" +
			"4. Try working through the problem again step by step"}
	}
	return TextResult{Text: strings.TrimSpace(text), UsedAPI: true}
}

func (s *claudeLLMService) GenerateDetailedSolution(ctx context.Context, problem *model.Problem) TextResult {
	text, err := s.generate(ctx, appconfig.PromptDetailedSolution, map[string]string{
		"problemText":   problem.ProblemText,
		"correctAnswer": problem.CorrectAnswer,
		"difficulty":    problem.Difficulty,
	})
	if err != nil {
		log.Error().Err(err).Uint("problemID", problem.ID).Msg("Detailed solution call failed, using static fallback")
		fallback := fmt.Sprintf("Solution:\n\nStep 1: Start with the problem\n%s\n\nStep 2: Solve step by step\n(Work through the operations to isolate the variable)\n\nFinal Answer: %s",
			problem.ProblemText, problem.CorrectAnswer)
		return TextResult{Text: fallback}
	}
	return TextResult{Text: strings.TrimSpace(text), UsedAPI: true}
}

func (s *claudeLLMService) GenerateSteps(ctx context.Context, problem *model.Problem) TextResult {
	text, err := s.generate(ctx, appconfig.PromptSteps, map[string]string{
		"problemText": problem.ProblemText,
		"difficulty":  problem.Difficulty,
	})
	if err != nil {
		log.Error().Err(err).Uint("problemID", problem.ID).Msg("Steps call failed, using static fallback")
		return TextResult{Text: "1. Identify what you need to solve for\n" +
			"2. Look at what operations are being performed\n" +
			"3. Think about the inverse operations\n" +
			"4. Work through the problem step by step"}
	}
	return TextResult{Text: strings.TrimSpace(text), UsedAPI: true}
}

// GenerateSimilarProblems is admin tooling: unlike the student-facing
// methods it propagates engine errors to the caller.
func (s *claudeLLMService) GenerateSimilarProblems(ctx context.Context, problem *model.Problem, count int) ([]ProblemDraft, error) {
	raw, err := s.generate(ctx, appconfig.PromptSimilarProblems, map[string]string{
		"count":         strconv.Itoa(count),
		"title":         problem.Title,
		"category":      problem.Category,
		"subcategory":   problem.Subcategory,
		"difficulty":    problem.Difficulty,
		"problemText":   problem.ProblemText,
		"correctAnswer": problem.CorrectAnswer,
		"answerFormat":  problem.AnswerFormat,
	})
	if err != nil {
		return nil, err
	}

	var drafts []ProblemDraft
	if err := json.Unmarshal([]byte(stripJSONFence(raw)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse generated problems: %w", err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("generation returned an empty problem list")
	}
	return drafts, nil
}
