package store

import (
	"encoding/json"
	"fmt"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/model"
)

// marshalLocation converts a location to canonical JSON TEXT for storage.
func marshalLocation(loc model.Location) (string, error) {
	data, err := model.MarshalCanonical(map[string]any{
		"realm":    loc.Realm,
		"sub_zone": loc.SubZone,
		"minimap":  loc.Minimap,
	})
	if err != nil {
		return "", fmt.Errorf("marshal location: %w", err)
	}
	return string(data), nil
}

// marshalMatched converts matched profile IDs to canonical JSON TEXT.
func marshalMatched(ids []string) (string, error) {
	list := make([]any, len(ids))
	for i, id := range ids {
		list[i] = id
	}
	data, err := model.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal matched: %w", err)
	}
	return string(data), nil
}

// marshalWrites converts a pass's channel writes to canonical JSON TEXT.
// Writes keep their pass order.
func marshalWrites(writes []model.ChannelWrite) (string, error) {
	list := make([]any, len(writes))
	for i, w := range writes {
		list[i] = map[string]any{
			"channel": w.Channel,
			"from":    w.From,
			"to":      w.To,
			"kind":    string(w.Kind),
		}
	}
	data, err := model.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal writes: %w", err)
	}
	return string(data), nil
}

// marshalLedger converts a ledger snapshot to canonical JSON TEXT.
func marshalLedger(ledger model.Ledger) (string, error) {
	obj := make(map[string]any, len(ledger))
	for ch, v := range ledger {
		obj[ch] = v
	}
	data, err := model.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal ledger: %w", err)
	}
	return string(data), nil
}

// unmarshalLocation parses canonical JSON TEXT to a Location.
func unmarshalLocation(data string) (model.Location, error) {
	var loc model.Location
	if data == "" || data == "{}" {
		return loc, nil
	}
	if err := json.Unmarshal([]byte(data), &loc); err != nil {
		return model.Location{}, fmt.Errorf("unmarshal location: %w", err)
	}
	return loc, nil
}

// unmarshalMatched parses canonical JSON TEXT to profile IDs.
func unmarshalMatched(data string) ([]string, error) {
	ids := []string{}
	if data == "" || data == "[]" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal matched: %w", err)
	}
	return ids, nil
}

// unmarshalWrites parses canonical JSON TEXT to channel writes.
func unmarshalWrites(data string) ([]model.ChannelWrite, error) {
	writes := []model.ChannelWrite{}
	if data == "" || data == "[]" {
		return writes, nil
	}
	if err := json.Unmarshal([]byte(data), &writes); err != nil {
		return nil, fmt.Errorf("unmarshal writes: %w", err)
	}
	return writes, nil
}

// unmarshalLedger parses canonical JSON TEXT to a ledger snapshot.
func unmarshalLedger(data string) (model.Ledger, error) {
	ledger := model.Ledger{}
	if data == "" || data == "{}" {
		return ledger, nil
	}
	if err := json.Unmarshal([]byte(data), &ledger); err != nil {
		return nil, fmt.Errorf("unmarshal ledger: %w", err)
	}
	return ledger, nil
}
