package access

import "fmt"

// DeniedError is the negative outcome of an authorization check. It carries
// only what the caller already knows - never the policy reasoning.
type DeniedError struct {
	ResourceType string
	Action       Action
	ActorID      uint64
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: user %d may not %s %s", e.ActorID, e.Action, e.ResourceType)
}

// InvalidRequestError means the evaluation input itself was malformed.
// No store query runs for such a request.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid access request: " + e.Reason
}
