package constants

// ScanStatus is the canonical status for rows in scan_job.
type ScanStatus string

// Stable values (store these exact strings in the DB).
const (
	ScanStatusQueued    ScanStatus = "QUEUED"    // accepted, waiting for a worker
	ScanStatusRunning   ScanStatus = "RUNNING"   // in progress
	ScanStatusCompleted ScanStatus = "COMPLETED" // report stored
	ScanStatusFailed    ScanStatus = "FAILED"    // terminal failure before a report existed
)
