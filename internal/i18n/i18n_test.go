package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":                    LocaleEN,
		"zh":                  LocaleZH,
		"zh-Hans-CN":          LocaleZH,
		"en-GB,en;q=0.9":      LocaleEN,
		"fr-CA":               LocaleEN,
		"not a language tag!": LocaleEN,
	}
	for raw, want := range cases {
		if got := NormalizeLocale(raw); got != want {
			t.Fatalf("NormalizeLocale(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestResolveLocalePrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/track?lang=zh-CN", nil)
	c.Request.Header.Set("X-Locale", "en-US")
	if got := ResolveLocale(c); got != LocaleZH {
		t.Fatalf("query lang should win, got %s", got)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/track", nil)
	c.Request.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	if got := ResolveLocale(c); got != LocaleZH {
		t.Fatalf("accept-language should be used, got %s", got)
	}
}

func TestTranslateFallsBack(t *testing.T) {
	if got := T(LocaleZH, "error.order_not_found"); got != "订单不存在" {
		t.Fatalf("unexpected zh message %q", got)
	}
	if got := T(LocaleZH, "error.never_defined"); got != "error.never_defined" {
		t.Fatalf("missing key should return key, got %q", got)
	}
	if got := Sprintf(LocaleEN, "error.password_min_length", 10); got != "Password must be at least 10 characters" {
		t.Fatalf("unexpected formatted message %q", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range messagesEN {
		if _, ok := messagesZH[key]; !ok {
			t.Fatalf("zh catalog missing %s", key)
		}
	}
	for key := range messagesZH {
		if _, ok := messagesEN[key]; !ok {
			t.Fatalf("en catalog missing %s", key)
		}
	}
}
