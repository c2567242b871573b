package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wajiddaudtamboli/careercompass/pkg/model"
)

type scripted struct {
	reply   string
	err     error
	prompts []string
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *scripted) Close() error { return nil }

func TestChat(t *testing.T) {
	gen := &scripted{reply: "Consider NIT Srinagar."}
	a := New(gen, nil)

	history := []Message{
		{Role: "user", Content: "I like maths"},
		{Role: "assistant", Content: "Engineering could suit you"},
	}
	reply, err := a.Chat(context.Background(), "Which college?", history)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "Consider NIT Srinagar." || reply.Offline {
		t.Fatalf("unexpected reply %+v", reply)
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"Student: I like maths", "Counsellor: Engineering could suit you", "Student: Which college?"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestChatRequiresMessage(t *testing.T) {
	if _, err := New(&scripted{}, nil).Chat(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected an error for an empty message")
	}
}

func TestChatWrapsGeneratorError(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := New(&scripted{err: boom}, nil).Chat(context.Background(), "hi", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestOfflineFallbacks(t *testing.T) {
	fallback := []model.QuizQuestion{{ID: 1, Question: "a"}, {ID: 2, Question: "b"}, {ID: 3, Question: "c"}}
	a := New(nil, fallback)
	ctx := context.Background()

	if a.Backend() != "offline" {
		t.Fatalf("backend = %q", a.Backend())
	}

	reply, err := a.Chat(ctx, "hello", nil)
	if err != nil || !reply.Offline {
		t.Fatalf("expected offline reply, got %+v, %v", reply, err)
	}

	qs, err := a.GenerateQuiz(ctx, "science", 2)
	if err != nil || len(qs) != 2 {
		t.Fatalf("expected 2 fallback questions, got %d, %v", len(qs), err)
	}

	out, err := a.Translate(ctx, "Welcome", "Urdu")
	if err != nil || out != "Welcome" {
		t.Fatalf("expected passthrough, got %q, %v", out, err)
	}
}

func TestGenerateQuiz(t *testing.T) {
	gen := &scripted{reply: "Here you go:\n```json\n" + `[
  {"question": "Do you enjoy solving puzzles?", "options": ["Yes", "No", "Sometimes", "Never"], "category": "aptitude"},
  {"question": "", "options": ["a", "b"]},
  {"question": "Pick a subject", "options": ["Maths", "Biology"], "category": "interests"}
]` + "\n```"}

	qs, err := New(gen, nil).GenerateQuiz(context.Background(), "aptitude", 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 usable questions, got %d", len(qs))
	}
	if qs[1].ID != 2 || qs[1].OrderIndex != 2 || qs[1].QuestionType != model.QuestionTypeMultipleChoice {
		t.Fatalf("unexpected numbering %+v", qs[1])
	}
	if !strings.Contains(gen.prompts[0], "10 multiple choice") {
		t.Fatalf("count should be capped at %d", MaxQuizQuestions)
	}
}

func TestParseQuiz(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "bare array", input: `[{"question":"q","options":["a","b"]}]`, want: 1},
		{name: "fenced", input: "```json\n[{\"question\":\"q\",\"options\":[\"a\",\"b\"]}]\n```", want: 1},
		{name: "fence without tag", input: "```\n[{\"question\":\"q\",\"options\":[\"a\",\"b\"]}]\n```", want: 1},
		{name: "no array", input: "sorry, I can't", wantErr: true},
		{name: "malformed", input: "[{\"question\":]", wantErr: true},
		{name: "nothing usable", input: `[{"question":"q","options":["only"]}]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := ParseQuiz(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(qs) != tt.want {
				t.Fatalf("got %d questions, want %d", len(qs), tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	gen := &scripted{reply: "स्वागत है"}
	out, err := New(gen, nil).Translate(context.Background(), "Welcome", "")
	if err != nil || out != "स्वागत है" {
		t.Fatalf("got %q, %v", out, err)
	}
	if !strings.Contains(gen.prompts[0], "to Hindi") {
		t.Fatal("expected Hindi as the default target")
	}
}

func TestFromKeyPlaceholder(t *testing.T) {
	for _, key := range []string{"", "your_gemini_api_key", "<gemini-key>"} {
		gen, err := FromKey(context.Background(), key, "")
		if err != nil {
			t.Fatal(err)
		}
		if gen.Name() != "offline" {
			t.Errorf("key %q: expected offline, got %s", key, gen.Name())
		}
	}
}
