package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"classification", ClassificationFailure("no payload"), http.StatusUnprocessableEntity},
		{"external", ExternalServiceFailure("sarvam", errors.New("401")), http.StatusBadGateway},
		{"application", ApplicationFailure("font missing"), http.StatusConflict},
		{"wrapped", fmt.Errorf("apply: %w", NotFound("node")), http.StatusNotFound},
		{"plain", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("classify: %w", ClassificationFailure("nothing to insert"))
	if !HasCode(err, CodeClassificationFailure) {
		t.Error("expected wrapped classification failure to be detected")
	}
	if HasCode(err, CodeApplicationFailure) {
		t.Error("unexpected code match")
	}
}

func TestAsAppErrorWrapsPlainErrors(t *testing.T) {
	base := errors.New("disk on fire")
	appErr := AsAppError(base)
	if appErr.Code != CodeInternalError {
		t.Errorf("Code = %s, want %s", appErr.Code, CodeInternalError)
	}
	if !errors.Is(appErr, base) {
		t.Error("expected original error to be unwrappable")
	}
}
