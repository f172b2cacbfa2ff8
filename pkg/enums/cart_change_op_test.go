package enums

import "testing"

func TestParseCartChangeOp(t *testing.T) {
	for _, op := range validCartChangeOps {
		got, err := ParseCartChangeOp(op.String())
		if err != nil || got != op {
			t.Fatalf("expected %s to parse, got %q err=%v", op, got, err)
		}
	}

	if _, err := ParseCartChangeOp("observe_all"); err == nil {
		t.Fatal("read operations are never announced")
	}
	if CartChangeOp("").IsValid() {
		t.Fatal("empty op should be invalid")
	}
}
