package service

import (
	"errors"
	"testing"

	"github.com/tiffin-desk/internal/config"
)

func TestCaptchaServiceDisabledPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: false})
	if err := svc.Verify("", ""); err != nil {
		t.Fatalf("disabled captcha should pass, got %v", err)
	}
	challenge, err := svc.Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.Enabled || challenge.CaptchaID != "" {
		t.Fatalf("disabled captcha should not issue challenge: %+v", challenge)
	}
}

func TestCaptchaServiceVerifyIsSingleUse(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Enabled: true, Length: 4})
	challenge, err := svc.Generate()
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if challenge.CaptchaID == "" || challenge.ImageBase64 == "" {
		t.Fatalf("challenge should carry id and image: %+v", challenge)
	}

	if err := svc.Verify(challenge.CaptchaID, ""); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("empty code want ErrCaptchaRequired got %v", err)
	}

	answer := svc.store.Get(challenge.CaptchaID, false)
	if len(answer) != 4 {
		t.Fatalf("stored answer length want 4 got %q", answer)
	}
	if err := svc.Verify(challenge.CaptchaID, " "+answer+" "); err != nil {
		t.Fatalf("correct answer should pass, got %v", err)
	}
	if err := svc.Verify(challenge.CaptchaID, answer); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("reused captcha want ErrCaptchaInvalid got %v", err)
	}
}
