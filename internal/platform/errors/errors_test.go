package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeUnknownAction, "no such action")
	target := New(CodeUnknownAction, "different message")
	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with same code to match")
	}
	other := New(CodeObjectNotFound, "no such action")
	if stderrors.Is(err, other) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(CodeBackendError, "query check failed", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found in chain")
	}
	if err.Error() != "query check failed" {
		t.Fatalf("Error() = %q, want internal message", err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "direct", err: New(CodeMissingParameter, "missing"), want: CodeMissingParameter},
		{name: "wrapped by fmt", err: fmt.Errorf("phase 1: %w", New(CodePreconditionFailed, "blocked")), want: CodePreconditionFailed},
		{name: "plain error", err: stderrors.New("boom"), want: CodeUnknown},
		{name: "nil", err: nil, want: CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestToGRPCStatusMapsCodes(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeUnknownAction, codes.NotFound},
		{CodeMissingParameter, codes.InvalidArgument},
		{CodeObjectNotFound, codes.NotFound},
		{CodePreconditionFailed, codes.FailedPrecondition},
		{CodeBackendError, codes.Unavailable},
		{CodeRuleExecutionFailure, codes.FailedPrecondition},
		{CodeUnknown, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "message").ToGRPCStatus()
			st, ok := status.FromError(err)
			if !ok {
				t.Fatal("expected gRPC status error")
			}
			if st.Code() != tt.want {
				t.Fatalf("grpc code = %s, want %s", st.Code(), tt.want)
			}
			if st.Message() != "message" {
				t.Fatalf("grpc message = %q, want %q", st.Message(), "message")
			}
		})
	}
}
