package utils

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("CARDSCAN_TEST_STR", "hello")
	if got := GetEnv("CARDSCAN_TEST_STR", "default", nil); got != "hello" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("CARDSCAN_TEST_MISSING", "default", nil); got != "default" {
		t.Fatalf("GetEnv missing = %q", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("CARDSCAN_TEST_INT", "42")
	if got := GetEnvAsInt("CARDSCAN_TEST_INT", 7, nil); got != 42 {
		t.Fatalf("GetEnvAsInt = %d", got)
	}
	t.Setenv("CARDSCAN_TEST_INT", "not-a-number")
	if got := GetEnvAsInt("CARDSCAN_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt unparseable = %d, want default", got)
	}
	if got := GetEnvAsInt("CARDSCAN_TEST_INT_MISSING", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt missing = %d, want default", got)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("CARDSCAN_TEST_FLOAT", "2.5")
	if got := GetEnvAsFloat("CARDSCAN_TEST_FLOAT", 1.0, nil); got != 2.5 {
		t.Fatalf("GetEnvAsFloat = %v", got)
	}
	t.Setenv("CARDSCAN_TEST_FLOAT", "nope")
	if got := GetEnvAsFloat("CARDSCAN_TEST_FLOAT", 1.0, nil); got != 1.0 {
		t.Fatalf("GetEnvAsFloat unparseable = %v, want default", got)
	}
}
