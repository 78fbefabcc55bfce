package envutil

import (
	"testing"
	"time"
)

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	t.Setenv("COREXIA_TEST_DURATION", "45")
	if got := Duration("COREXIA_TEST_DURATION", time.Second, nil); got != 45*time.Second {
		t.Fatalf("seconds: want=%s got=%s", 45*time.Second, got)
	}
	t.Setenv("COREXIA_TEST_DURATION", "1m30s")
	if got := Duration("COREXIA_TEST_DURATION", time.Second, nil); got != 90*time.Second {
		t.Fatalf("go syntax: want=%s got=%s", 90*time.Second, got)
	}
	t.Setenv("COREXIA_TEST_DURATION", "soon")
	if got := Duration("COREXIA_TEST_DURATION", time.Second, nil); got != time.Second {
		t.Fatalf("invalid: want default got=%s", got)
	}
}

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("COREXIA_TEST_INT", "twelve")
	if got := Int("COREXIA_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("want=7 got=%d", got)
	}
	t.Setenv("COREXIA_TEST_INT", " 12 ")
	if got := Int("COREXIA_TEST_INT", 7, nil); got != 12 {
		t.Fatalf("want=12 got=%d", got)
	}
}

func TestListDropsBlanks(t *testing.T) {
	t.Setenv("COREXIA_TEST_LIST", "http://a, ,http://b,")
	got := List("COREXIA_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("unexpected list: %v", got)
	}
	t.Setenv("COREXIA_TEST_LIST", "   ")
	if got := List("COREXIA_TEST_LIST", []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("blank should use default, got %v", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("COREXIA_TEST_BOOL", "on")
	if !Bool("COREXIA_TEST_BOOL", false) {
		t.Fatal("expected true")
	}
	t.Setenv("COREXIA_TEST_BOOL", "maybe")
	if Bool("COREXIA_TEST_BOOL", false) {
		t.Fatal("expected default false")
	}
}
