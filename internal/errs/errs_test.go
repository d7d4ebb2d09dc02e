package errs_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/edgard/jokebot/internal/errs"
)

func TestCode(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: errs.CodeUnknown},
		{name: "plain error", err: cause, want: errs.CodeUnknown},
		{name: "database", err: errs.NewDatabaseError("save failed", cause), want: errs.CodeDatabase},
		{name: "validation", err: errs.NewValidationError("bad interval", nil), want: errs.CodeValidation},
		{name: "wrapped config", err: fmt.Errorf("load: %w", errs.NewConfigError("bad", nil)), want: errs.CodeConfig},
		{name: "delivery", err: errs.NewDeliveryError("send", cause), want: errs.CodeDelivery},
		{name: "not found", err: errs.NewNotFoundError("no jokes", nil), want: errs.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := errs.Code(tt.err); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIsSentinel(t *testing.T) {
	t.Parallel()

	cause := errors.New("constraint failed")
	err := fmt.Errorf("assign rank: %w", errs.NewDatabaseError("upsert user rank", cause))

	if !errors.Is(err, errs.ErrDatabase) {
		t.Error("expected errors.Is(err, ErrDatabase)")
	}
	if errors.Is(err, errs.ErrValidation) {
		t.Error("did not expect errors.Is(err, ErrValidation)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to stay reachable")
	}
	if got, want := err.Error(), "assign rank: upsert user rank: constraint failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

type recordingNotifier struct {
	texts []string
}

func (n *recordingNotifier) NotifyAdmin(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return nil
}

func TestLogReporterForwardsToNotifier(t *testing.T) {
	t.Parallel()

	n := &recordingNotifier{}
	r := errs.NewLogReporter(nil, n)

	r.Report(context.Background(), nil)
	r.Report(context.Background(), errs.NewDeliveryError("send joke", errors.New("timeout")), "chat_id", int64(7))

	if len(n.texts) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(n.texts))
	}
	if want := "[DELIVERY] send joke: timeout"; n.texts[0] != want {
		t.Errorf("notice = %q, want %q", n.texts[0], want)
	}
}
