package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := parseHeaders([]string{"authorization=Bearer x", "bad", "k= ", "x-team=data"})
	if len(got) != 2 {
		t.Fatalf("want=2 headers got=%v", got)
	}
	if got["x-team"] != "data" {
		t.Fatalf("x-team: want=data got=%q", got["x-team"])
	}
	if parseHeaders(nil) != nil {
		t.Fatalf("empty input should yield nil")
	}
}

func TestParseRatioClamps(t *testing.T) {
	cases := map[string]float64{"0.25": 0.25, "-1": 0, "7": 1}
	for in, want := range cases {
		got, ok := parseRatio(in)
		if !ok || got != want {
			t.Fatalf("parseRatio(%q): want=%v got=%v ok=%v", in, want, got, ok)
		}
	}
	if _, ok := parseRatio("nope"); ok {
		t.Fatalf("parseRatio should reject garbage")
	}
}
