package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/drinkshop/drinkshop-backend/pkg/enums"
)

// ChangeEvent is announced on the relay channel after every committed mutation.
type ChangeEvent struct {
	Op     enums.CartChangeOp `json:"op"`
	Origin string             `json:"origin"`
	At     time.Time          `json:"at"`
}

func (e ChangeEvent) Encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode change event: %w", err)
	}
	return string(b), nil
}

func DecodeChangeEvent(payload string) (ChangeEvent, error) {
	var evt ChangeEvent
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change event: %w", err)
	}
	if !evt.Op.IsValid() {
		return ChangeEvent{}, fmt.Errorf("decode change event: unknown op %q", evt.Op)
	}
	if evt.Origin == "" {
		return ChangeEvent{}, fmt.Errorf("decode change event: origin is required")
	}
	return evt, nil
}
