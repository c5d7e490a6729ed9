package dedup

import (
	"testing"

	"github.com/fpt/relay/pkg/api"
	"github.com/fpt/relay/pkg/message"
)

func baseRequest() *api.ChatCompletionRequest {
	temp := 0.7
	return &api.ChatCompletionRequest{
		Model:       "claude-sonnet-4-20250514",
		Temperature: &temp,
		Messages: []message.Message{
			{Role: message.RoleSystem, Content: "You are helpful."},
			{Role: message.RoleUser, Content: "Hello"},
		},
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint(baseRequest())
	b := Fingerprint(baseRequest())
	if a != b {
		t.Fatalf("Fingerprint: want stable key, got %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("Fingerprint length: want 64 hex chars, got %d", len(a))
	}
}

func TestFingerprint_IgnoresTransportFields(t *testing.T) {
	plain := Fingerprint(baseRequest())

	decorated := baseRequest()
	decorated.Stream = true
	decorated.User = "user-42"
	decorated.SessionID = "sess-abc"
	if got := Fingerprint(decorated); got != plain {
		t.Fatalf("Fingerprint: stream/user/session must not affect key")
	}
}

func TestFingerprint_ContentSensitive(t *testing.T) {
	plain := Fingerprint(baseRequest())

	changed := baseRequest()
	changed.Messages[1].Content = "Hello!"
	if Fingerprint(changed) == plain {
		t.Fatalf("Fingerprint: message content change must change key")
	}

	otherModel := baseRequest()
	otherModel.Model = "claude-3-5-haiku-latest"
	if Fingerprint(otherModel) == plain {
		t.Fatalf("Fingerprint: model change must change key")
	}
}

func TestFingerprint_AbsentVersusSet(t *testing.T) {
	withTemp := Fingerprint(baseRequest())

	noTemp := baseRequest()
	noTemp.Temperature = nil
	if Fingerprint(noTemp) == withTemp {
		t.Fatalf("Fingerprint: absent temperature must hash differently from 0.7")
	}

	zeroTemp := baseRequest()
	zero := 0.0
	zeroTemp.Temperature = &zero
	if Fingerprint(zeroTemp) == Fingerprint(noTemp) {
		t.Fatalf("Fingerprint: explicit 0 must differ from absent")
	}
}

func TestFingerprint_ResponseFormat(t *testing.T) {
	plain := Fingerprint(baseRequest())

	jsonMode := baseRequest()
	jsonMode.ResponseFormat = &api.ResponseFormat{Type: "json_object"}
	if Fingerprint(jsonMode) == plain {
		t.Fatalf("Fingerprint: response_format must affect key")
	}
}
