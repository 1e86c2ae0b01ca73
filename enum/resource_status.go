package enum

type ResourceStatus string

const (
	ResourcePending  ResourceStatus = "pending"
	ResourceSnapshot ResourceStatus = "snapshot"
	ResourceFailed   ResourceStatus = "failed"
)
