package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adreel/adreel-api/internal/llm"
)

const systemPrompt = `You write short spoken scripts for vertical marketing videos.
Respond with a single JSON object: {"hook": "...", "body": "...", "cta": "..."}.
The hook is one attention-grabbing sentence, the body is two to three sentences
of product pitch, and the cta is one closing call to action. No markdown.`

// scriptPayload is the JSON contract expected from the model.
type scriptPayload struct {
	Hook string `json:"hook"`
	Body string `json:"body"`
	CTA  string `json:"cta"`
}

// Generator produces new scripts from topics using a chat completion model
// and persists them.
type Generator struct {
	llm    llm.Client
	store  Store
	logger *slog.Logger
}

// NewGenerator creates a script generator.
func NewGenerator(llmClient llm.Client, store Store, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		llm:    llmClient,
		store:  store,
		logger: logger,
	}
}

// Generate produces and persists one script for the given topic.
func (g *Generator) Generate(ctx context.Context, topic string) (*Script, error) {
	if topic == "" {
		return nil, fmt.Errorf("script: topic is required")
	}

	reply, err := g.llm.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Write a marketing video script about: " + topic},
	})
	if err != nil {
		return nil, fmt.Errorf("script: generate for topic %q: %w", topic, err)
	}

	payload, err := parsePayload(reply)
	if err != nil {
		return nil, fmt.Errorf("script: parse model output for topic %q: %w", topic, err)
	}

	sc := New(topic, payload.Hook, payload.Body, payload.CTA)
	if err := g.store.Save(ctx, sc); err != nil {
		return nil, fmt.Errorf("script: save generated script: %w", err)
	}

	g.logger.Info("script generated",
		slog.String("script_id", sc.ID),
		slog.String("topic", topic),
	)
	return sc, nil
}

// GenerateBatch produces one script per topic. A failing topic is logged
// and skipped; the others still generate.
func (g *Generator) GenerateBatch(ctx context.Context, topics []string) []*Script {
	scripts := make([]*Script, 0, len(topics))
	for _, topic := range topics {
		sc, err := g.Generate(ctx, topic)
		if err != nil {
			g.logger.Warn("script generation failed",
				slog.String("topic", topic),
				slog.String("error", err.Error()),
			)
			continue
		}
		scripts = append(scripts, sc)
	}
	return scripts
}

// parsePayload decodes the model reply, tolerating a fenced code block
// around the JSON.
func parsePayload(reply string) (scriptPayload, error) {
	trimmed := strings.TrimSpace(reply)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var payload scriptPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return scriptPayload{}, err
	}
	if payload.Hook == "" && payload.Body == "" && payload.CTA == "" {
		return scriptPayload{}, fmt.Errorf("empty script payload")
	}
	return payload, nil
}
