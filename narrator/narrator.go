// Package narrator talks to the external text-generation service that
// proposes new tank arrangements and narrative flavor text, and parses its
// free-text replies back into grid positions.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"text/template"

	"google.golang.org/genai"
)

//go:embed prompt_template.txt
var promptTemplate string

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 1.0

	systemInstruction = "You are a fish tank simulator. You will get a picture of the fish tank, " +
		"generate the next fish tank, and then say a bit about what happened."
)

// PromptData holds the data for the prompt template.
type PromptData struct {
	FirstRound bool
	Roster     string
	Board      string
}

// Narrator is a Gemini-backed story generator. It keeps the conversation
// history so later rounds build on earlier ones. One round is one
// synchronous request; there is no retry policy.
type Narrator struct {
	client       *genai.Client
	model        string
	temperature  float32
	conversation []*genai.Content
	logger       *log.Logger
}

// New creates a narrator using the given Gemini API key.
func New(ctx context.Context, apiKey string, logger *log.Logger) (*Narrator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("narrator: no API key configured")
	}
	if logger == nil {
		logger = log.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &Narrator{
		client:      client,
		model:       defaultModel,
		temperature: defaultTemperature,
		logger:      logger,
	}, nil
}

// NextRound sends the current board (and, on the first round, the roster)
// to the narrator and returns its raw reply. The caller parses the reply
// with ParseReply and discards the round if parsing fails.
func (n *Narrator) NextRound(ctx context.Context, firstRound bool, roster, board string) (string, error) {
	prompt, err := buildPrompt(PromptData{
		FirstRound: firstRound,
		Roster:     roster,
		Board:      board,
	})
	if err != nil {
		return "", err
	}

	n.logger.Printf("Sending prompt to narrator: %s", prompt)
	n.conversation = append(n.conversation, genai.NewContentFromText(prompt, genai.RoleUser))

	temperature := n.temperature
	result, err := n.client.Models.GenerateContent(
		ctx,
		n.model,
		n.conversation,
		&genai.GenerateContentConfig{
			Temperature:       &temperature,
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("generating story: %w", err)
	}

	story := strings.TrimSpace(result.Text())
	n.logger.Printf("Received narrator reply (%d characters)", len(story))
	n.conversation = append(n.conversation, genai.NewContentFromText(story, genai.RoleModel))
	return story, nil
}

// buildPrompt renders the round prompt from the embedded template.
func buildPrompt(data PromptData) (string, error) {
	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var prompt bytes.Buffer
	if err := tmpl.Execute(&prompt, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return prompt.String(), nil
}
