package errors

import (
	"errors"
	"strings"
)

// Reason narrows a code down to a domain condition callers can branch on
type Reason string

// Domain reasons
const (
	ReasonRequirementNotMet        Reason = "REQUIREMENT_NOT_MET"
	ReasonConflictActiveExpedition Reason = "CONFLICT_ACTIVE_EXPEDITION"
	ReasonConflictActiveEncounter  Reason = "CONFLICT_ACTIVE_ENCOUNTER"
	ReasonDataIntegrity            Reason = "DATA_INTEGRITY"
	ReasonEncounterFinished        Reason = "ENCOUNTER_FINISHED"
)

// MetaViolations is the metadata key holding the list of violated conditions
const MetaViolations = "violations"

// Sentinels usable with errors.Is
var (
	ErrRequirementNotMet        = &Error{Code: CodeFailedPrecondition, Reason: ReasonRequirementNotMet}
	ErrConflictActiveExpedition = &Error{Code: CodeAlreadyExists, Reason: ReasonConflictActiveExpedition}
	ErrDataIntegrity            = &Error{Code: CodeDataLoss, Reason: ReasonDataIntegrity}
)

// RequirementNotMet reports every unmet requirement at once
func RequirementNotMet(violations []string) *Error {
	err := FailedPrecondition("requirements not met: " + strings.Join(violations, "; ")).
		WithReason(ReasonRequirementNotMet)
	return err.WithMeta(MetaViolations, violations)
}

// ConflictActiveExpedition reports that the player already has an active expedition
func ConflictActiveExpedition(playerID, expeditionID string) *Error {
	return AlreadyExistsf("player %s already has an active expedition", playerID).
		WithReason(ReasonConflictActiveExpedition).
		WithMeta("player_id", playerID).
		WithMeta("expedition_id", expeditionID)
}

// DataIntegrity reports a record whose stored state cannot be advanced
func DataIntegrity(message string) *Error {
	return New(CodeDataLoss, message).WithReason(ReasonDataIntegrity)
}

// GetReason extracts the domain reason from an error
func GetReason(err error) Reason {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Reason
	}
	return ""
}

// GetViolations extracts the violated conditions attached to an error
func GetViolations(err error) []string {
	meta := GetMeta(err)
	if meta == nil {
		return nil
	}
	switch v := meta[MetaViolations].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
