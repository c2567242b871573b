package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

const offlineReply = "The career assistant is offline right now. Browse the careers and colleges " +
	"pages or take the quiz, and try the assistant again later."

// MaxQuizQuestions bounds a single GenerateQuiz call
const MaxQuizQuestions = 10

// Message is one turn of a chat history
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type Reply struct {
	Text    string `json:"text"`
	Offline bool   `json:"offline"`
}

// Assistant builds prompts for the career guidance features and falls back to
// canned answers when the generator is offline
type Assistant struct {
	gen      Generator
	fallback []model.QuizQuestion
}

// New returns an Assistant over gen. fallback is served by GenerateQuiz while offline.
func New(gen Generator, fallback []model.QuizQuestion) *Assistant {
	if gen == nil {
		gen = Offline{}
	}
	return &Assistant{gen: gen, fallback: fallback}
}

func (a *Assistant) Backend() string { return a.gen.Name() }

func (a *Assistant) Chat(ctx context.Context, message string, history []Message) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, errors.New("message is required")
	}

	text, err := a.gen.Generate(ctx, chatPrompt(message, history))
	if errors.Is(err, ErrOffline) {
		return Reply{Text: offlineReply, Offline: true}, nil
	}
	if err != nil {
		return Reply{}, fmt.Errorf("chat: %w", err)
	}
	return Reply{Text: text}, nil
}

// GenerateQuiz asks the model for count multiple choice questions about topic
func (a *Assistant) GenerateQuiz(ctx context.Context, topic string, count int) ([]model.QuizQuestion, error) {
	if count <= 0 {
		count = 5
	}
	if count > MaxQuizQuestions {
		count = MaxQuizQuestions
	}

	text, err := a.gen.Generate(ctx, quizPrompt(topic, count))
	if errors.Is(err, ErrOffline) {
		qs := a.fallback
		if len(qs) > count {
			qs = qs[:count]
		}
		return qs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("generating quiz: %w", err)
	}

	qs, err := ParseQuiz(text)
	if err != nil {
		return nil, err
	}
	if len(qs) > count {
		qs = qs[:count]
	}
	return qs, nil
}

// Translate renders text in the target language. Offline it returns text unchanged.
func (a *Assistant) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("text is required")
	}
	if target == "" {
		target = "Hindi"
	}

	out, err := a.gen.Generate(ctx, translatePrompt(text, target))
	if errors.Is(err, ErrOffline) {
		return text, nil
	}
	if err != nil {
		return "", fmt.Errorf("translating: %w", err)
	}
	return out, nil
}

func (a *Assistant) Close() error {
	return a.gen.Close()
}

type generatedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

// ParseQuiz reads a JSON array of questions out of model output, which may be
// wrapped in a markdown code fence or surrounded by prose
func ParseQuiz(text string) ([]model.QuizQuestion, error) {
	body := stripFence(text)
	start, end := strings.Index(body, "["), strings.LastIndex(body, "]")
	if start < 0 || end < start {
		return nil, errors.New("no JSON array in model output")
	}

	var raw []generatedQuestion
	if err := json.Unmarshal([]byte(body[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parsing quiz: %w", err)
	}

	qs := make([]model.QuizQuestion, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Question) == "" || len(r.Options) < 2 {
			continue
		}
		qs = append(qs, model.QuizQuestion{
			ID:           len(qs) + 1,
			Question:     strings.TrimSpace(r.Question),
			QuestionType: model.QuestionTypeMultipleChoice,
			Options:      r.Options,
			Category:     r.Category,
			OrderIndex:   len(qs) + 1,
			Active:       true,
		})
	}
	if len(qs) == 0 {
		return nil, errors.New("model returned no usable questions")
	}
	return qs, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// drop the opening fence and its language tag
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	if idx := strings.LastIndex(text, "```"); idx != -1 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
