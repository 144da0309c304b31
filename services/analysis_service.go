package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"accana-api/models"
	"accana-api/utils"
)

const reasoningThreshold = 75

const analysisSystemPrompt = "You are an accreditation compliance analyst for dental education programs. " +
	"Score how well the submitted program content satisfies each listed standard. " +
	"Respond with a single JSON object of the form " +
	`{"results":[{"standardId":"...","matchPercentage":0,"improvementFeedback":"...","reasoning":"..."}]}` +
	" containing exactly one entry per standard."

// AnalysisService orchestrates per-body AI scoring runs. It keeps no state
// and performs no persistence.
type AnalysisService struct {
	gen Generator
}

func NewAnalysisService(gen Generator) *AnalysisService {
	return &AnalysisService{gen: gen}
}

// aiResultItem is the wire shape one scored standard arrives in. The model
// is not trusted: MatchPercentage may be any JSON value and StandardID may
// be mangled.
type aiResultItem struct {
	StandardID          string      `json:"standardId"`
	StandardName        string      `json:"standardName"`
	MatchPercentage     interface{} `json:"matchPercentage"`
	ImprovementFeedback string      `json:"improvementFeedback"`
	Reasoning           string      `json:"reasoning"`
}

type aiResultEnvelope struct {
	Results []aiResultItem `json:"results"`
}

// Analyze scores content against every selected body concurrently with
// all-settled semantics: per-body failures become warnings, and only when
// every body fails does the call return an error.
func (s *AnalysisService) Analyze(ctx context.Context, content string, bodyKeys []string, language string) ([]models.AnalysisResultsGroup, []string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil, utils.ValidationError("program content is required")
	}

	bodies := make([]AccreditationBody, 0, len(bodyKeys))
	for _, key := range bodyKeys {
		body, ok := Body(key)
		if !ok {
			return nil, nil, utils.ValidationError("unknown accreditation body: %s", key)
		}
		bodies = append(bodies, body)
	}
	if len(bodies) == 0 {
		return nil, nil, utils.ValidationError("at least one accreditation body must be selected")
	}

	type outcome struct {
		index int
		group models.AnalysisResultsGroup
		err   error
	}

	results := make([]outcome, len(bodies))
	var wg sync.WaitGroup
	for i, body := range bodies {
		wg.Add(1)
		go func(i int, body AccreditationBody) {
			defer wg.Done()
			group, err := s.analyzeBody(ctx, content, body, language)
			results[i] = outcome{index: i, group: group, err: err}
		}(i, body)
	}
	wg.Wait()

	var groups []models.AnalysisResultsGroup
	var warnings []string
	for _, r := range results {
		if r.err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", bodies[r.index].Key, r.err))
			continue
		}
		groups = append(groups, r.group)
	}

	if len(groups) == 0 {
		return nil, nil, utils.ExternalServiceError(nil,
			"analysis failed for all selected accreditation bodies: %s", strings.Join(warnings, "; "))
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return bodyOrder(bodyKeys, groups[a].AccreditationBodyKey) < bodyOrder(bodyKeys, groups[b].AccreditationBodyKey)
	})

	return groups, warnings, nil
}

func bodyOrder(keys []string, key string) int {
	for i, k := range keys {
		if strings.EqualFold(strings.TrimSpace(k), key) {
			return i
		}
	}
	return len(keys)
}

func (s *AnalysisService) analyzeBody(ctx context.Context, content string, body AccreditationBody, language string) (models.AnalysisResultsGroup, error) {
	raw, err := s.gen.Generate(ctx, analysisSystemPrompt, buildAnalysisPrompt(content, body, language))
	if err != nil {
		return models.AnalysisResultsGroup{}, err
	}

	items, err := parseAnalysisResponse(raw, body)
	if err != nil {
		return models.AnalysisResultsGroup{}, err
	}

	return models.AnalysisResultsGroup{
		AccreditationBodyKey:  body.Key,
		AccreditationBodyName: body.Name,
		Items:                 items,
	}, nil
}

// buildAnalysisPrompt embeds every standard of the body plus the raw content.
// The prompt is deterministic for a given (content, body, language) triple.
func buildAnalysisPrompt(content string, body AccreditationBody, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accreditation body: %s\n\nStandards:\n", body.Name)
	for _, std := range body.Standards {
		fmt.Fprintf(&b, "- %s (%s): %s\n", std.ID, std.Name, std.Description)
	}
	if language = strings.TrimSpace(language); language == "" {
		language = "English"
	}
	fmt.Fprintf(&b, "\nWrite improvementFeedback and reasoning in %s.\n", language)
	fmt.Fprintf(&b, "\nProgram content to evaluate:\n%s\n", content)
	return b.String()
}

// parseAnalysisResponse decodes one body's model output and reconciles each
// item against the catalog. Items whose id cannot be matched to a catalog
// standard are dropped rather than kept with a dangling id.
func parseAnalysisResponse(raw string, body AccreditationBody) ([]models.AnalysisResultItem, error) {
	var envelope aiResultEnvelope
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &envelope); err != nil {
		return nil, utils.ExternalServiceError(err, "analysis response was not valid JSON")
	}
	if envelope.Results == nil {
		return nil, utils.ExternalServiceError(nil, "analysis response is missing the results array")
	}

	items := make([]models.AnalysisResultItem, 0, len(envelope.Results))
	for _, wire := range envelope.Results {
		std, ok := FindStandard(body, wire.StandardID)
		if !ok {
			continue
		}

		item := models.AnalysisResultItem{
			StandardID:          std.ID,
			StandardName:        std.Name,
			MatchPercentage:     coercePercent(wire.MatchPercentage),
			ImprovementFeedback: strings.TrimSpace(wire.ImprovementFeedback),
			Reasoning:           strings.TrimSpace(wire.Reasoning),
		}
		if item.Reasoning == "" && item.MatchPercentage < reasoningThreshold {
			item.Reasoning = fmt.Sprintf("No detailed reasoning was returned for the %d%% match against %s.", item.MatchPercentage, std.ID)
		}
		items = append(items, item)
	}
	return items, nil
}

// StripCodeFence removes an optional surrounding ``` / ```json wrapper from
// model output before JSON decoding.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// coercePercent turns whatever JSON value arrived into an int in [0,100].
// Non-numeric values become 0.
func coercePercent(v interface{}) int {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return int(n)
}
