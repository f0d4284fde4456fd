package domain

// TaskEntry is the registry record of one task type. ID is the sanitized
// task name and doubles as the name of the task's item table.
type TaskEntry struct {
	ID          string
	Title       string
	Source      string
	Owner       string
	Description string
	Created     int64
	Status      TaskStatus
}

// TaskMetadata is the descriptive part of a registry entry supplied at upload.
type TaskMetadata struct {
	Title       string
	Source      string
	Owner       string
	Description string
}
