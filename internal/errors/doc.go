// Package errors provides the structured error type used across the expedition service.
//
// Errors carry a transport-neutral Code, an optional domain Reason, a user-facing
// message, and metadata:
//
//	err := errors.NotFound("expedition not found").
//	    WithMeta("expedition_id", id)
//
// Domain conditions that callers branch on have dedicated constructors and sentinels:
//
//	err := errors.RequirementNotMet([]string{"level 3 is below required 5", "missing tool: axe"})
//	if errors.Is(err, errors.ErrRequirementNotMet) {
//	    violations := errors.GetViolations(err)
//	}
//
// Wrapping keeps code, reason and metadata of the wrapped error:
//
//	if err := repo.Get(ctx, id); err != nil {
//	    return errors.Wrap(err, "failed to load expedition")
//	}
//
// Layer guidelines:
//   - Repositories return NotFound / AlreadyExists and wrap storage failures.
//   - Orchestrators validate inputs (InvalidArgument), check preconditions
//     (FailedPrecondition) and route data-integrity problems through DataIntegrity.
//   - Handlers place the code, reason, message and violations in the response envelope.
package errors
