package v1alpha1

import (
	"encoding/json"
	"fmt"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/expedition-api/internal/errors"
)

// Envelope is the uniform response shape of every method
type Envelope struct {
	Success    bool         `json:"success"`
	Data       any          `json:"data"`
	Error      *ErrorDetail `json:"error,omitempty"`
	Message    string       `json:"message,omitempty"`
	Violations []string     `json:"violations,omitempty"`
}

// ErrorDetail describes a failed call
type ErrorDetail struct {
	Code   string         `json:"code"`
	Reason string         `json:"reason,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

func success(data any, message string) (*structpb.Struct, error) {
	return encode(&Envelope{Success: true, Data: data, Message: message})
}

func failure(err error) (*structpb.Struct, error) {
	env := &Envelope{
		Error: &ErrorDetail{
			Code:   errors.GetCode(err).String(),
			Reason: string(errors.GetReason(err)),
			Meta:   errors.GetMeta(err),
		},
		Message:    errors.GetMessage(err),
		Violations: violations(err),
	}
	return encode(env)
}

// violations lists domain violations, or field errors for malformed requests
func violations(err error) []string {
	if v := errors.GetViolations(err); len(v) > 0 {
		return v
	}
	fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		for _, msg := range fields[name] {
			out = append(out, fmt.Sprintf("%s %s", name, msg))
		}
	}
	return out
}

// encode goes through JSON so entity field tags define the wire names
func encode(env *Envelope) (*structpb.Struct, error) {
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return out, nil
}

// DecodeEnvelope reads a response struct back into an Envelope
func DecodeEnvelope(s *structpb.Struct) (*Envelope, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "failed to decode envelope")
	}
	return &env, nil
}

// DecodeData unmarshals the envelope data into target
func (e *Envelope) DecodeData(target any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return errors.Wrap(err, "failed to read envelope data")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return errors.Wrap(err, "failed to decode envelope data")
	}
	return nil
}
