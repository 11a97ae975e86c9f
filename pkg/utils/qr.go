package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseScanPayload extracts the numeric identifier from a scanned QR payload.
// Field apps encode either a bare integer string ("42") or a small JSON
// object carrying the id under booking_id, plot_id or id, as a number or a
// string. Both forms must be accepted.
func ParseScanPayload(payload string) (uint, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return 0, fmt.Errorf("empty scan payload")
	}

	// Bare integer form
	if id, err := strconv.ParseUint(payload, 10, 32); err == nil {
		return uint(id), nil
	}

	// JSON object form
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return 0, fmt.Errorf("unrecognized scan payload")
	}

	for _, key := range []string{"booking_id", "plot_id", "id"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if id, err := parseScanID(raw); err == nil {
			return id, nil
		}
	}

	return 0, fmt.Errorf("scan payload carries no id")
}

func parseScanID(raw json.RawMessage) (uint, error) {
	var asNumber uint
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		id, err := strconv.ParseUint(strings.TrimSpace(asString), 10, 32)
		if err != nil {
			return 0, err
		}
		return uint(id), nil
	}

	return 0, fmt.Errorf("id is neither number nor string")
}
