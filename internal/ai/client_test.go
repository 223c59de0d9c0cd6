package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStudyPack(t *testing.T) {
	content := `{
		"flashcards": [{"question": "Q1", "answer": "A1", "difficulty": "easy"}],
		"quiz": {
			"title": "Algebra Quiz",
			"questions": [{"question": "Pick", "options": ["a","b","c","d"], "correctAnswer": 1, "explanation": "why"}]
		},
		"summary": {"content": "short", "keyPoints": ["p1", "p2"]}
	}`

	pack, err := ParseStudyPack(content)
	require.NoError(t, err)

	require.Len(t, pack.Flashcards, 1)
	assert.Equal(t, "Q1", pack.Flashcards[0].Question)
	assert.Equal(t, "easy", pack.Flashcards[0].Difficulty)

	require.NotNil(t, pack.Quiz)
	assert.Equal(t, "Algebra Quiz", pack.Quiz.Title)
	require.Len(t, pack.Quiz.Questions, 1)
	assert.Equal(t, 1, pack.Quiz.Questions[0].CorrectAnswer)

	require.NotNil(t, pack.Summary)
	assert.Equal(t, []string{"p1", "p2"}, pack.Summary.KeyPoints)
}

func TestParseStudyPackInvalid(t *testing.T) {
	_, err := ParseStudyPack("Here are your flashcards: 1. ...")
	assert.Error(t, err)

	_, err = ParseStudyPack("")
	assert.Error(t, err)
}

func TestParseStudyPackPartial(t *testing.T) {
	pack, err := ParseStudyPack(`{"summary": {"content": "only a summary"}}`)
	require.NoError(t, err)

	assert.Empty(t, pack.Flashcards)
	assert.Nil(t, pack.Quiz)
	require.NotNil(t, pack.Summary)
}

func TestGenerate(t *testing.T) {
	var captured struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"flashcards": [{"question": "Q", "answer": "A", "difficulty": "medium"}]}`}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second)

	pack, err := client.Generate(context.Background(), "Algebra", "", "x+y=z")
	require.NoError(t, err)
	require.Len(t, pack.Flashcards, 1)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[1].Content, "Subject: General", "empty subject defaults")
	assert.Contains(t, captured.Messages[1].Content, "Title: Algebra")
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second)

	_, err := client.Generate(context.Background(), "t", "s", "c")
	assert.Error(t, err)
}

func TestGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "test-model", 5*time.Second)

	_, err := client.Generate(context.Background(), "t", "s", "c")
	assert.Error(t, err)
}
