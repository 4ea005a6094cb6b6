package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`
}

func TestMessageAggregatesFieldErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(signupPayload{Email: "nope", Password: "short", Rating: 9})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := Message(err)
	for _, want := range []string{"must be a valid email", "must be at least 8 characters long", "must be less than or equal to 5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
	if !strings.Contains(msg, ";") {
		t.Errorf("message %q should join multiple field errors", msg)
	}
}

func TestMessageStableOrder(t *testing.T) {
	v := validator.New()
	err := v.Struct(signupPayload{Rating: 3})
	a, b := Message(err), Message(err)
	if a != b {
		t.Errorf("messages differ across calls: %q vs %q", a, b)
	}
}

func TestMessageNonValidatorError(t *testing.T) {
	if got := Message(errTest); got != "invalid request payload" {
		t.Errorf("Message(plain error) = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "boom" }
