package deploy

import (
	"errors"
	"fmt"
)

// FailureReason classifies why a deployment attempt terminated.
type FailureReason string

const (
	// ReasonNetworkUnreachable means the endpoint could not be dialed, an RPC
	// call failed, or the node answered with the wrong chain or a malformed
	// response.
	ReasonNetworkUnreachable FailureReason = "network_unreachable"
	// ReasonInvalidKey means the private key is malformed or the wrong length.
	ReasonInvalidKey FailureReason = "invalid_key"
	// ReasonEncoding means the constructor arguments do not match the ABI.
	ReasonEncoding FailureReason = "encoding"
	// ReasonSubmissionRejected means the node refused the broadcast.
	ReasonSubmissionRejected FailureReason = "submission_rejected"
	// ReasonConfirmationTimeout means no receipt arrived within the deadline.
	ReasonConfirmationTimeout FailureReason = "confirmation_timeout"
	// ReasonVerificationFailed means a receipt was obtained but the creation
	// did not take effect (reverted, or no code at the contract address).
	ReasonVerificationFailed FailureReason = "verification_failed"
)

// DeploymentError is a terminal deployment failure. It carries the failure
// classification, the lifecycle stage that was reached, and the underlying
// cause so callers can decide whether retrying with a fresh nonce is safe.
type DeploymentError struct {
	Reason FailureReason
	Stage  Stage
	Err    error
}

// Error implements the error interface.
func (e *DeploymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deployment failed (%s) at stage %s: %v", e.Reason, e.Stage, e.Err)
	}
	return fmt.Sprintf("deployment failed (%s) at stage %s", e.Reason, e.Stage)
}

// Unwrap returns the underlying error for errors.Is/errors.As chains.
func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the failure classification from err. It returns the
// empty string when err is not a DeploymentError.
func ReasonOf(err error) FailureReason {
	var de *DeploymentError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}
