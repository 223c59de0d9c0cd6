// Package ai calls the OpenAI-compatible chat-completions endpoint that turns
// a study note into flashcards, a quiz and a summary.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const systemPrompt = `You are an AI study assistant. Given study notes, generate:
1. Flashcards (question/answer pairs)
2. A quiz with multiple choice questions
3. A summary with key points

Format your response as JSON with this structure:
{
  "flashcards": [{"question": "...", "answer": "...", "difficulty": "easy|medium|hard"}],
  "quiz": {
    "title": "...",
    "questions": [{"question": "...", "options": ["A", "B", "C", "D"], "correctAnswer": 0, "explanation": "..."}]
  },
  "summary": {
    "content": "...",
    "keyPoints": ["point1", "point2", ...]
  }
}`

// StudyPack is the structured reply expected from the model. Any of the three
// artifact groups may be absent.
type StudyPack struct {
	Flashcards []Flashcard `json:"flashcards"`
	Quiz       *Quiz       `json:"quiz"`
	Summary    *Summary    `json:"summary"`
}

type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Summary struct {
	Content   string   `json:"content"`
	KeyPoints []string `json:"keyPoints"`
}

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate runs one chat completion for the note and parses the JSON reply.
func (c *Client) Generate(ctx context.Context, title, subject, content string) (*StudyPack, error) {
	if subject == "" {
		subject = "General"
	}

	userPrompt := fmt.Sprintf(
		"Please process these study notes and generate flashcards, quiz, and summary:\n\nTitle: %s\nSubject: %s\n\nContent:\n%s",
		title, subject, content,
	)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completion call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat completion call: unexpected status %s", resp.Status)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	return ParseStudyPack(chatResp.Choices[0].Message.Content)
}

// ParseStudyPack parses the model's message content as the expected JSON
// shape. Anything unparseable fails the whole attempt.
func ParseStudyPack(content string) (*StudyPack, error) {
	var pack StudyPack
	if err := json.Unmarshal([]byte(content), &pack); err != nil {
		return nil, fmt.Errorf("parse ai response: %w", err)
	}
	return &pack, nil
}
