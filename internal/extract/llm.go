package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MinInputLen is the classification noise floor: captions shorter than
// this are not worth an API call.
const MinInputLen = 20

const systemPromptTemplate = `You are an event information extractor for a university campus event platform (ITU - Istanbul Technical University).

Given a club post caption, extract the following information in JSON format:
- title: The event name/title (concise, descriptive, max 100 chars). Do NOT just use the first line if it's not the actual event name.
- description: A clean summary of the event (remove hashtags, mentions, excessive emojis)
- event_date: Date and time in ISO 8601 format (YYYY-MM-DDTHH:MM:SS). If only date is found, use 00:00:00 for time. If year is not specified, assume %d.
- end_date: End date/time if mentioned, otherwise null
- location: The physical venue/location where the event takes place. This should be a building, room, campus location, or address. NEVER use "Instagram", social media handles, or URLs as location. If no physical location is found, use null.
- category: One of: music, sports, technology, art, academic, social, career, workshop, seminar, other

The content may be in Turkish or English. Common Turkish months:
- Ocak=January, Şubat=February, Mart=March, Nisan=April, Mayıs=May, Haziran=June
- Temmuz=July, Ağustos=August, Eylül=September, Ekim=October, Kasım=November, Aralık=December

Common location indicators in Turkish: "Yer:", "Konum:", "Nerede:", "📍"
Common date indicators: "Tarih:", "Ne zaman:", "📅"
Common time indicators: "Saat:", "🕐"

Return ONLY valid JSON, no markdown formatting, no explanation, no code blocks.`

// LLMConfig configures the AI-assisted extractor.
type LLMConfig struct {
	Endpoint    string // chat completions URL
	Model       string
	APIKey      string
	TimeoutSecs int
	DefaultYear int // year assumed for dates missing one; 0 = current year
}

// DefaultLLMConfig returns the standard OpenAI-compatible settings.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Endpoint:    "https://api.openai.com/v1/chat/completions",
		Model:       "gpt-4o-mini",
		TimeoutSecs: 30,
	}
}

// LLM is the AI-assisted extractor. One outbound call per invocation,
// bounded timeout, no retry: every failure mode maps to Unavailable and
// the caller falls back to the regex tier.
type LLM struct {
	config LLMConfig
	http   *http.Client
	now    func() time.Time
}

// NewLLM creates an AI extractor from config.
func NewLLM(config LLMConfig) *LLM {
	timeout := time.Duration(config.TimeoutSecs) * time.Second
	if config.TimeoutSecs <= 0 {
		timeout = 30 * time.Second
	}
	return &LLM{
		config: config,
		http:   &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Extract sends post text plus optional club context to the completion
// service and parses the constrained JSON reply. The returned fields are
// untrusted: validation is the caller's job, as is the acceptance gate.
func (l *LLM) Extract(ctx context.Context, text, clubName string) Result {
	if l.config.APIKey == "" {
		return Unavailable("no API credential configured")
	}
	if len(strings.TrimSpace(text)) < MinInputLen {
		return Unavailable("input below minimum length")
	}

	userMessage := fmt.Sprintf("Extract event information from this post:\n\n%s", text)
	if clubName != "" {
		userMessage += fmt.Sprintf("\n\nThis post is from the club: %s", clubName)
	}

	year := l.config.DefaultYear
	if year == 0 {
		year = l.now().Year()
	}

	req := chatRequest{
		Model: l.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(systemPromptTemplate, year)},
			{Role: "user", Content: userMessage},
		},
		Temperature:    0.1,
		MaxTokens:      500,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	content, err := l.sendChatRequest(ctx, req)
	if err != nil {
		return Unavailable(fmt.Sprintf("completion call failed: %v", err))
	}

	fields, err := parseExtractionResponse(content)
	if err != nil {
		return Unavailable(fmt.Sprintf("unparseable response: %v", err))
	}

	return Succeeded(fields)
}

func (l *LLM) sendChatRequest(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+l.config.APIKey)

	resp, err := l.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("parsing response JSON: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}

// parseExtractionResponse decodes the model reply. The contract demands a
// single object with exactly the six Raw fields; anything else is an
// extraction failure, not a protocol error.
func parseExtractionResponse(content string) (Raw, error) {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()

	var fields Raw
	if err := dec.Decode(&fields); err != nil {
		return Raw{}, fmt.Errorf("invalid extraction object: %w", err)
	}
	// A second value after the object means the reply was not a single
	// structured object.
	if dec.More() {
		return Raw{}, fmt.Errorf("trailing content after extraction object")
	}
	return fields, nil
}
