package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("DRINKSHOP_TEST_VALUE", "  console ")
	if got := Get("DRINKSHOP_TEST_VALUE", "json"); got != "console" {
		t.Fatalf("expected trimmed value, got %q", got)
	}

	t.Setenv("DRINKSHOP_TEST_VALUE", "   ")
	if got := Get("DRINKSHOP_TEST_VALUE", "json"); got != "json" {
		t.Fatalf("blank value should use fallback, got %q", got)
	}
}
