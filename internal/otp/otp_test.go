package otp

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateCode()
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("non-numeric code %q: %v", code, err)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code out of range: %d", n)
		}
	}
}

func TestCredentialMatches(t *testing.T) {
	now := time.Now().UTC()
	cred := Credential{Code: "123456", ExpiresAt: now.Add(10 * time.Minute)}

	if !cred.Matches("123456", now) {
		t.Fatalf("expected match for correct unexpired code")
	}
	if cred.Matches("654321", now) {
		t.Fatalf("expected mismatch for wrong code")
	}
	if cred.Matches("123456", cred.ExpiresAt) {
		t.Fatalf("expiry must be exclusive: code valid only strictly before ExpiresAt")
	}
	if cred.Matches("123456", cred.ExpiresAt.Add(time.Second)) {
		t.Fatalf("expected expired code to fail even on exact match")
	}
	if (Credential{}).Matches("", now) {
		t.Fatalf("empty credential must never match")
	}
}

func TestIssueAndConsume(t *testing.T) {
	repo := NewMemoryRepository()
	issuer := NewIssuer(repo)
	ctx := context.Background()

	cred, err := issuer.Issue(ctx, "user-1", PurposeLogin, 5*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := issuer.Consume(ctx, "user-1", PurposeLogin, cred.Code); err != nil {
		t.Fatalf("consume: %v", err)
	}

	// Consumption deletes the credential, so a replay must fail.
	if err := issuer.Consume(ctx, "user-1", PurposeLogin, cred.Code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode on replay, got %v", err)
	}
}

func TestIssueReplacesPreviousCode(t *testing.T) {
	repo := NewMemoryRepository()
	issuer := NewIssuer(repo)
	ctx := context.Background()

	first, err := issuer.Issue(ctx, "user-1", PurposeEmailVerify, 10*time.Minute)
	if err != nil {
		t.Fatalf("issue first: %v", err)
	}
	second, err := issuer.Issue(ctx, "user-1", PurposeEmailVerify, 10*time.Minute)
	if err != nil {
		t.Fatalf("issue second: %v", err)
	}

	if first.Code != second.Code {
		if err := issuer.Consume(ctx, "user-1", PurposeEmailVerify, first.Code); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected stale code to fail, got %v", err)
		}
	}
	if err := issuer.Consume(ctx, "user-1", PurposeEmailVerify, second.Code); err != nil {
		t.Fatalf("expected newest code to verify: %v", err)
	}
}

func TestPurposesAreIndependent(t *testing.T) {
	repo := NewMemoryRepository()
	issuer := NewIssuer(repo)
	ctx := context.Background()

	verify, err := issuer.Issue(ctx, "user-1", PurposeEmailVerify, 10*time.Minute)
	if err != nil {
		t.Fatalf("issue verify: %v", err)
	}
	login, err := issuer.Issue(ctx, "user-1", PurposeLogin, 5*time.Minute)
	if err != nil {
		t.Fatalf("issue login: %v", err)
	}

	if err := issuer.Consume(ctx, "user-1", PurposeLogin, login.Code); err != nil {
		t.Fatalf("consume login: %v", err)
	}
	if err := issuer.Consume(ctx, "user-1", PurposeEmailVerify, verify.Code); err != nil {
		t.Fatalf("verification code must survive a login issuance/consumption: %v", err)
	}
}

func TestConsumeExpired(t *testing.T) {
	repo := NewMemoryRepository()
	issuer := NewIssuer(repo)
	ctx := context.Background()

	cred, err := issuer.Issue(ctx, "user-1", PurposeLogin, 5*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cred.ExpiresAt = time.Now().UTC().Add(-time.Second)
	if err := repo.Save(ctx, cred); err != nil {
		t.Fatalf("expire credential: %v", err)
	}

	if err := issuer.Consume(ctx, "user-1", PurposeLogin, cred.Code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected expired code to fail, got %v", err)
	}
}
