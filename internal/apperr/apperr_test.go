package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesSentinelByCode(t *testing.T) {
	err := New(CodeInsufficientFunds, "balance too low").
		With("wallet_id", "w-1").
		With("amount", int64(500))

	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected code match against sentinel")
	}
	if errors.Is(err, ErrInvalidWalletID) {
		t.Fatalf("unexpected match against different code")
	}
}

func TestErrorMatchesThroughWrapping(t *testing.T) {
	inner := New(CodeTransactionNotPlaceholder, "already completed").With("transaction_id", "t-1")
	wrapped := fmt.Errorf("complete placeholder: %w", inner)

	if !errors.Is(wrapped, ErrTransactionNotPlaceholder) {
		t.Fatalf("expected wrapped error to match sentinel")
	}

	var ae *Error
	if !errors.As(wrapped, &ae) {
		t.Fatalf("expected errors.As to recover coded error")
	}
	if ae.Context["transaction_id"] != "t-1" {
		t.Fatalf("expected context to survive wrapping, got %v", ae.Context)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidWalletID:           404,
		CodeInvalidCommunityID:        404,
		CodeTransactionNotPlaceholder: 409,
		CodeWalletAlreadyShared:       409,
		CodeInsufficientFunds:         400,
		CodeWalletCannotSendToItself:  400,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Fatalf("code %s: expected %d got %d", code, want, got)
		}
	}
}
