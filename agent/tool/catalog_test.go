package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/dermaluz/concierge/agent/contract"
	statex "github.com/dermaluz/concierge/agent/state"
)

type fakeRetriever struct {
	result string
	err    error
	calls  []string
}

func (f *fakeRetriever) Search(ctx context.Context, query string) (string, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeNotifier struct {
	err   error
	calls []contractx.Escalation
}

func (f *fakeNotifier) Notify(ctx context.Context, esc contractx.Escalation) error {
	f.calls = append(f.calls, esc)
	return f.err
}

var toolTestNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func TestInfosForModeAssistant(t *testing.T) {
	t.Parallel()

	infos := InfosForMode(contractx.ModeAssistant)
	if len(infos) != 4 {
		t.Fatalf("expected 4 tool infos, got %d", len(infos))
	}
	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}
	if !names[ToolStartSkinQuiz] {
		t.Fatal("assistant mode must offer start_skin_quiz")
	}
	if names[ToolClassifySkin] {
		t.Fatal("assistant mode must not offer classify_skin_type")
	}
}

func TestInfosForModeQuiz(t *testing.T) {
	t.Parallel()

	infos := InfosForMode(contractx.ModeQuiz)
	if len(infos) != 4 {
		t.Fatalf("expected 4 tool infos, got %d", len(infos))
	}
	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}
	if !names[ToolClassifySkin] {
		t.Fatal("quiz mode must offer classify_skin_type")
	}
	if names[ToolStartSkinQuiz] {
		t.Fatal("quiz mode must not offer start_skin_quiz")
	}
}

func TestExecuteSearchResult(t *testing.T) {
	t.Parallel()

	storeInfo := &fakeRetriever{result: "Envíos: entregamos en 3 días."}
	e := NewExecutor(storeInfo, &fakeRetriever{}, &fakeNotifier{}, "")

	results, err := e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
		{ID: "call-1", Name: ToolStoreInfo, Args: `{"query":"envíos a domicilio"}`},
	}, "5512345678", toolTestNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Kind != statex.KindToolResult {
		t.Fatalf("unexpected kind: %s", results[0].Kind)
	}
	if results[0].ToolCallID != "call-1" {
		t.Fatalf("ToolCallID = %q", results[0].ToolCallID)
	}
	if results[0].Text != "Envíos: entregamos en 3 días." {
		t.Fatalf("unexpected payload: %q", results[0].Text)
	}
	if len(storeInfo.calls) != 1 || storeInfo.calls[0] != "envíos a domicilio" {
		t.Fatalf("unexpected retriever calls: %v", storeInfo.calls)
	}
}

func TestExecuteSearchFallbacks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		retriever *fakeRetriever
		args      string
	}{
		{"empty result", &fakeRetriever{result: ""}, `{"query":"algo"}`},
		{"retriever error", &fakeRetriever{err: errors.New("db down")}, `{"query":"algo"}`},
		{"empty query", &fakeRetriever{result: "ignorado"}, `{"query":"  "}`},
		{"malformed args", &fakeRetriever{result: "ignorado"}, `not-json`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := NewExecutor(&fakeRetriever{}, tc.retriever, &fakeNotifier{}, "")
			results, err := e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
				{ID: "call-1", Name: ToolProductInfo, Args: tc.args},
			}, "", toolTestNow)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if results[0].Text != noInfoPayload {
				t.Fatalf("payload = %q, want no-info fallback", results[0].Text)
			}
		})
	}
}

func TestExecuteHumanHandoff(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	e := NewExecutor(&fakeRetriever{}, &fakeRetriever{}, notifier, "soporte@dermaluz.mx")

	results, err := e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
		{ID: "call-1", Name: ToolHumanHandoff, Args: `{"client_phone":"5599887766","body":"quiere cambiar su pedido"}`},
	}, "5512345678", toolTestNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if results[0].Text != handoffOKPayload {
		t.Fatalf("payload = %q", results[0].Text)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.calls))
	}
	esc := notifier.calls[0]
	if esc.Recipient != "soporte@dermaluz.mx" {
		t.Fatalf("Recipient = %q", esc.Recipient)
	}
	if esc.CallerPhone != "5599887766" {
		t.Fatalf("CallerPhone = %q", esc.CallerPhone)
	}
	if !strings.Contains(esc.Subject, "5599887766") {
		t.Fatalf("subject missing phone: %q", esc.Subject)
	}
	if !strings.Contains(esc.Body, "quiere cambiar su pedido") {
		t.Fatalf("body missing report: %q", esc.Body)
	}
}

func TestExecuteHumanHandoffDefaultsToCallerPhone(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	e := NewExecutor(&fakeRetriever{}, &fakeRetriever{}, notifier, "soporte@dermaluz.mx")

	_, err := e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
		{ID: "call-1", Name: ToolHumanHandoff, Args: `{"body":"duda sin resolver"}`},
	}, "5512345678", toolTestNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if notifier.calls[0].CallerPhone != "5512345678" {
		t.Fatalf("CallerPhone = %q, want session caller phone", notifier.calls[0].CallerPhone)
	}
}

func TestExecuteHumanHandoffNotifierFailure(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{err: errors.New("qstash unavailable")}
	e := NewExecutor(&fakeRetriever{}, &fakeRetriever{}, notifier, "")

	results, err := e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
		{ID: "call-1", Name: ToolHumanHandoff, Args: `{"body":"ayuda"}`},
	}, "5512345678", toolTestNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(results[0].Text, "qstash unavailable") {
		t.Fatalf("payload must surface the dispatch failure, got %q", results[0].Text)
	}
	if results[0].Text == handoffOKPayload {
		t.Fatal("failure must not render the success payload")
	}
}

func TestExecuteStartSkinQuiz(t *testing.T) {
	t.Parallel()

	e := NewExecutor(&fakeRetriever{}, &fakeRetriever{}, &fakeNotifier{}, "")
	results, err := e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
		{ID: "call-1", Name: ToolStartSkinQuiz},
	}, "", toolTestNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if results[0].Text != quizStartedPayload {
		t.Fatalf("payload = %q", results[0].Text)
	}
}

func TestExecuteClassifySkin(t *testing.T) {
	t.Parallel()

	e := NewExecutor(&fakeRetriever{}, &fakeRetriever{}, &fakeNotifier{}, "")

	results, err := e.Execute(context.Background(), contractx.ModeQuiz, []statex.ToolCall{
		{ID: "call-1", Name: ToolClassifySkin, Args: `{"tipo_de_piel":"Piel grasa"}`},
	}, "", toolTestNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(results[0].Text, string(contractx.SkinOily)) {
		t.Fatalf("payload missing profile: %q", results[0].Text)
	}

	results, err = e.Execute(context.Background(), contractx.ModeQuiz, []statex.ToolCall{
		{ID: "call-2", Name: ToolClassifySkin, Args: `{"tipo_de_piel":"piel mixta"}`},
	}, "", toolTestNow)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(results[0].Text, "piel mixta") {
		t.Fatalf("invalid label must be reported back, got %q", results[0].Text)
	}
}

func TestExecuteRejectsUnknownTool(t *testing.T) {
	t.Parallel()

	e := NewExecutor(&fakeRetriever{}, &fakeRetriever{}, &fakeNotifier{}, "")
	_, err := e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
		{ID: "call-1", Name: "delete_everything"},
	}, "", toolTestNow)
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestExecuteEnforcesModeGating(t *testing.T) {
	t.Parallel()

	e := NewExecutor(&fakeRetriever{}, &fakeRetriever{}, &fakeNotifier{}, "")

	_, err := e.Execute(context.Background(), contractx.ModeQuiz, []statex.ToolCall{
		{ID: "call-1", Name: ToolStartSkinQuiz},
	}, "", toolTestNow)
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("start_skin_quiz in quiz mode: expected ErrUnknownTool, got %v", err)
	}

	_, err = e.Execute(context.Background(), contractx.ModeAssistant, []statex.ToolCall{
		{ID: "call-1", Name: ToolClassifySkin, Args: `{"tipo_de_piel":"Piel seca"}`},
	}, "", toolTestNow)
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("classify_skin_type in assistant mode: expected ErrUnknownTool, got %v", err)
	}
}
