package deploy

// Stage represents a step in the deployment lifecycle.
type Stage string

const (
	// StageDisconnected is the initial stage, before the endpoint is dialed.
	StageDisconnected Stage = "disconnected"
	// StageConnected means the endpoint answered the liveness probe.
	StageConnected Stage = "connected"
	// StageAccountVerified means the deployer account was derived and inspected.
	StageAccountVerified Stage = "account_verified"
	// StageBuilt means the unsigned creation transaction was assembled.
	StageBuilt Stage = "built"
	// StageSigned means the transaction was signed.
	StageSigned Stage = "signed"
	// StageSubmitted means the transaction was broadcast and a hash captured.
	StageSubmitted Stage = "submitted"
	// StageConfirmed means a receipt was obtained within the deadline.
	StageConfirmed Stage = "confirmed"
	// StageVerified means the deployed code was read back non-empty.
	StageVerified Stage = "verified"
	// StageFailed is the terminal failure stage, reachable from any other.
	StageFailed Stage = "failed"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// StageOrder defines the forward order of lifecycle stages.
var StageOrder = []Stage{
	StageDisconnected,
	StageConnected,
	StageAccountVerified,
	StageBuilt,
	StageSigned,
	StageSubmitted,
	StageConfirmed,
	StageVerified,
}

// StageIndex returns the index of a stage in the lifecycle order.
// Returns -1 if the stage is not part of the forward order; StageFailed is
// terminal and deliberately outside it.
func StageIndex(stage Stage) int {
	for i, s := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}
