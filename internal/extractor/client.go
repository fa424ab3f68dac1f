// Package extractor turns invoice text into a normalized extraction result
// using the OpenAI chat completions API. OCR itself is an external concern;
// the client consumes already-extracted text.
package extractor

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"contia/internal/domain"
	"contia/internal/port"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 500

	// lowQualityMinChars is the minimum alphanumeric volume required before
	// the text is worth sending to the model at all.
	lowQualityMinChars = 200
)

// Config configures the extraction client.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// Client calls the chat completions API and normalizes its answer. It
// implements port.DocumentExtractor.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// New creates an extraction client.
func New(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:       openai.NewClientWithConfig(clientCfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Analyze classifies and extracts one document. Garbled or near-empty text
// short-circuits to a low_quality_scan result without an API call; transport
// failures wrap domain.ErrExtractionFailed.
func (c *Client) Analyze(ctx context.Context, input port.ExtractInput) (*domain.ExtractionResult, error) {
	if IsLowQualityOCR(input.Text, lowQualityMinChars) {
		return &domain.ExtractionResult{
			Status:       domain.AnalysisLowQualityScan,
			AnalysisText: input.Text,
		}, nil
	}

	prompt := buildPrompt(input.Kind, input.Text)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	var rawText string
	if len(resp.Choices) > 0 {
		rawText = resp.Choices[0].Message.Content
	}
	log.Printf("extractor: raw model output (%s): %s", input.Filename, truncate(rawText, 500))

	return buildResult(input, ExtractJSON(rawText)), nil
}

// buildResult maps the recovered JSON onto the extraction shape. A document
// that yielded no JSON at all is a failed analysis; one that parsed but
// produced no usable field still counts as analyzed as long as there is
// free text to review by hand.
func buildResult(input port.ExtractInput, data map[string]interface{}) *domain.ExtractionResult {
	res := &domain.ExtractionResult{
		Status:       domain.AnalysisOK,
		AnalysisText: input.Text,
	}
	if data == nil {
		res.Status = domain.AnalysisFailed
		return res
	}

	counterpartyKeys := []string{"supplier", "proveedor", "provider_name", "provider"}
	if input.Kind == domain.KindIncome {
		counterpartyKeys = []string{"client", "cliente", "customer", "client_name"}
	}
	if v, ok := pick(data, counterpartyKeys...).(string); ok {
		res.Counterparty = v
	}

	if v, ok := pick(data, "invoice_date", "fecha", "date").(string); ok {
		res.InvoiceDate = NormalizeDate(v)
	}
	if v, ok := pick(data, "payment_date", "fecha_pago", "due_date").(string); ok {
		res.PaymentDate = NormalizeDate(v)
	}
	if list, ok := pick(data, "payment_dates").([]interface{}); ok {
		for _, entry := range list {
			if s, ok := entry.(string); ok {
				if iso := NormalizeDate(s); iso != "" {
					res.PaymentDates = append(res.PaymentDates, iso)
				}
			}
		}
	}

	res.BaseAmount = NormalizeAmount(pick(data, "base_amount", "base", "base_imponible"))
	res.VatRate = NormalizeRate(pick(data, "vat_rate", "tipo_iva", "iva"))
	res.VatAmount = NormalizeAmount(pick(data, "vat_amount", "cuota_iva", "iva_amount"))
	res.TotalAmount = NormalizeAmount(pick(data, "total_amount", "total", "importe_total"))
	res.VatBreakdown = NormalizeBreakdown(pick(data, "vat_breakdown", "desglose_iva"))

	if !hasUsableField(res) && res.AnalysisText == "" {
		res.Status = domain.AnalysisFailed
	}
	return res
}

func hasUsableField(res *domain.ExtractionResult) bool {
	return res.Counterparty != "" ||
		res.InvoiceDate != "" ||
		res.BaseAmount.Valid ||
		res.VatAmount.Valid ||
		res.TotalAmount.Valid ||
		len(res.VatBreakdown) > 0 ||
		len(res.PaymentDates) > 0
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
