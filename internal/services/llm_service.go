package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/applied-jobs-tracker/internal/validation"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

var ErrExtractionDisabled = errors.New("job extraction is not configured")

// maxPostingBytes caps how much of a posting is sent to the model.
const maxPostingBytes = 20000

const draftExtractionPrompt = `
You are an expert Job Data Extraction Agent. Your task is to analyze the provided raw HTML/Text from a job posting and extract structured data.

### INSTRUCTIONS:
1. **Ignore** navigation menus, footers, "similar jobs" lists, and site advertisements.
2. **Format** the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "companyName": "Name of the company",
    "jobTitle": "Job title",
    "location": "Job location or 'Remote'",
    "salary": "A single yearly amount as a plain number if explicitly mentioned, otherwise null",
    "link": "The canonical URL of the posting if present, otherwise null"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not hallucinate or guess.

### RAW CONTENT:
%s
`

// LLMService turns a raw job posting into a pre-filled add form. It never
// writes anything; the draft goes through the normal create flow.
type LLMService struct {
	generate func(ctx context.Context, prompt string) (string, error)
	logger   *zap.Logger
}

// NewLLMService connects to Gemini. An empty apiKey yields a service whose
// ExtractDraft always fails with ErrExtractionDisabled.
func NewLLMService(ctx context.Context, apiKey, model string, logger *zap.Logger) (*LLMService, error) {
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY is empty, job extraction disabled")
		return &LLMService{logger: logger}, nil
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return NewLLMServiceWithModel(llm, logger), nil
}

func NewLLMServiceWithModel(model llms.Model, logger *zap.Logger) *LLMService {
	return &LLMService{
		generate: func(ctx context.Context, prompt string) (string, error) {
			return llms.GenerateFromSinglePrompt(ctx, model, prompt)
		},
		logger: logger,
	}
}

func (s *LLMService) Enabled() bool { return s != nil && s.generate != nil }

type draftJSON struct {
	CompanyName *string         `json:"companyName"`
	JobTitle    *string         `json:"jobTitle"`
	Location    *string         `json:"location"`
	Salary      json.RawMessage `json:"salary"`
	Link        *string         `json:"link"`
}

// ExtractDraft asks the model for the add-form fields found in rawHTML.
// pageURL, when given, wins over any link the model reports.
func (s *LLMService) ExtractDraft(ctx context.Context, rawHTML, pageURL string) (validation.Form, error) {
	if !s.Enabled() {
		return validation.Form{}, ErrExtractionDisabled
	}
	rawHTML = truncatePosting(rawHTML, maxPostingBytes)

	resp, err := s.generate(ctx, fmt.Sprintf(draftExtractionPrompt, rawHTML))
	if err != nil {
		s.logger.Error("job extraction failed", zap.Error(err))
		return validation.Form{}, fmt.Errorf("extract job: %w", err)
	}

	form, err := parseDraft(resp)
	if err != nil {
		s.logger.Warn("unparseable extraction response", zap.Error(err), zap.String("raw", resp))
		return validation.Form{}, err
	}
	if pageURL = strings.TrimSpace(pageURL); pageURL != "" {
		form.Link = pageURL
	}
	form.Status = "Submitted"
	return form, nil
}

// truncatePosting cuts s to at most max bytes without splitting a rune.
func truncatePosting(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func parseDraft(resp string) (validation.Form, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")

	var d draftJSON
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &d); err != nil {
		return validation.Form{}, fmt.Errorf("decode extraction: %w", err)
	}

	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.TrimSpace(*p)
	}

	return validation.Form{
		CompanyName: str(d.CompanyName),
		JobTitle:    str(d.JobTitle),
		Location:    str(d.Location),
		Salary:      salaryText(d.Salary),
		Link:        str(d.Link),
	}, nil
}

// salaryText accepts a JSON number or a numeric string and returns it as
// form text; anything else becomes empty.
func salaryText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return s
		}
	}
	return ""
}
