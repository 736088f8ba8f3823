package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(target string, params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = params
	return c
}

func TestQueryPagination(t *testing.T) {
	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{query: "", page: 1, pageSize: 20},
		{query: "?page=3&page_size=50", page: 3, pageSize: 50},
		{query: "?page=-2&page_size=500", page: 1, pageSize: 100},
		{query: "?page=abc&page_size=0", page: 1, pageSize: 20},
	}
	for _, tc := range cases {
		got := QueryPagination(testContext("/orders"+tc.query, nil))
		if got.Page != tc.page || got.PageSize != tc.pageSize {
			t.Fatalf("%q: want %d/%d got %d/%d", tc.query, tc.page, tc.pageSize, got.Page, got.PageSize)
		}
	}
}

func TestParsePathUint(t *testing.T) {
	cases := map[string]bool{"12": true, "0": false, "-3": false, "x1": false, "": false}
	for raw, ok := range cases {
		_, got := ParsePathUint(testContext("/orders", gin.Params{{Key: "id", Value: raw}}), "id")
		if got != ok {
			t.Fatalf("%q: want ok=%v", raw, ok)
		}
	}
}

func TestParseQueryDate(t *testing.T) {
	day, ok := ParseQueryDate(testContext("/reports?from=2026-03-01", nil), "from")
	if !ok || day == nil || day.Day() != 1 || day.Location().String() != "UTC" {
		t.Fatalf("unexpected date %v ok=%v", day, ok)
	}
	if _, ok := ParseQueryDate(testContext("/reports?from=03/01/2026", nil), "from"); ok {
		t.Fatalf("bad layout should fail")
	}
	if day, ok := ParseQueryDate(testContext("/reports", nil), "from"); !ok || day != nil {
		t.Fatalf("missing date should be nil, ok")
	}
}
