package grc20

import (
	"encoding/json"
	"strings"
)

// Payload is a GRC-20 mint operation. The mint amount is fixed and never read from the content.
//
//	{"p": "grc-20", "game": "battle", "class": "war_machine", "code": "08AUD00sQ", "op": "loot"}
type Payload struct {
	Tick         string // lower-cased `game`
	OriginalTick string
	Code         string // lower-cased `code`
	OriginalCode string
}

// ParsePayload extracts the tick and code of a JSON content. A non-accepted Outcome is returned
// when the content can't carry a mint.
func ParsePayload(content json.RawMessage) (*Payload, Outcome) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, Reject(ReasonInvalidContent)
	}

	rawTick, ok := fields["game"]
	if !ok {
		return nil, Reject(ReasonMissingTick)
	}
	rawCode, ok := fields["code"]
	if !ok {
		return nil, Reject(ReasonMissingCode)
	}

	tick, ok := parseString(rawTick)
	if !ok {
		return nil, Reject(ReasonInvalidTick)
	}
	code, ok := parseString(rawCode)
	if !ok {
		return nil, Reject(ReasonInvalidCode)
	}

	return &Payload{
		Tick:         strings.ToLower(tick),
		OriginalTick: tick,
		Code:         strings.ToLower(code),
		OriginalCode: code,
	}, Accept()
}

// parseString accepts only a JSON string; null and other types are rejected.
func parseString(raw json.RawMessage) (string, bool) {
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil || value == nil {
		return "", false
	}
	return *value, true
}
