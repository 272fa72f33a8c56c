package services

import (
	"encoding/json"

	"github.com/rpupo63/portfolio-builder-backend/errs"
)

// patchFields decodes the top level of a JSON object so callers can tell which
// keys a partial update carries.
func patchFields(body []byte, payloadName string) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(body) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, errs.NewMalformedPayloadError(payloadName, err)
	}
	return fields, nil
}

// overlay decodes body onto dst so only the supplied fields change.
func overlay(body []byte, dst any, payloadName string) error {
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}
