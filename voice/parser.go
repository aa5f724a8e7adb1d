package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Parser turns a spoken transcript into item names and a budget. It is
// backed by a hosted language model and may fail for network, credential
// or output-shape reasons.
type Parser interface {
	Parse(ctx context.Context, transcript string) (ParsedTranscript, error)
}

// ParsedTranscript is the validated model output.
type ParsedTranscript struct {
	Items  []string `json:"items"`
	Budget float64  `json:"budget"`
}

var ErrMissingAPIKey = errors.New("API key not configured")

// DecodeParsed validates raw model output. It must be a JSON object with an
// "items" array of strings; "budget" must be a number when present.
func DecodeParsed(raw []byte) (ParsedTranscript, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return ParsedTranscript{}, fmt.Errorf("model output is not a JSON object")
	}

	itemsRaw, ok := fields["items"]
	if !ok {
		return ParsedTranscript{}, fmt.Errorf("model output has no items array")
	}
	var items []string
	if err := json.Unmarshal(itemsRaw, &items); err != nil || items == nil {
		return ParsedTranscript{}, fmt.Errorf("model output items must be an array of strings")
	}

	var budget float64
	if budgetRaw, ok := fields["budget"]; ok && string(budgetRaw) != "null" {
		if err := json.Unmarshal(budgetRaw, &budget); err != nil {
			return ParsedTranscript{}, fmt.Errorf("model output budget must be a number")
		}
	}
	if budget < 0 {
		budget = 0
	}

	return ParsedTranscript{Items: items, Budget: budget}, nil
}

// UnconfiguredParser fails every call. It stands in when no model
// credentials are configured so the rest of the service still runs.
type UnconfiguredParser struct {
	Err error
}

func (p UnconfiguredParser) Parse(context.Context, string) (ParsedTranscript, error) {
	if p.Err == nil {
		return ParsedTranscript{}, ErrMissingAPIKey
	}
	return ParsedTranscript{}, p.Err
}
