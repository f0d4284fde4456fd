package domain

// TaskStatus is the administrative state of a registered task type.
type TaskStatus string

const (
	TaskStatusActive   TaskStatus = "active"
	TaskStatusInactive TaskStatus = "inactive"
)

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusActive, TaskStatusInactive:
		return true
	}
	return false
}

// Action is the worker action carried in an event's "action" attribute.
type Action string

const (
	ActionFix      Action = "fix"
	ActionSkip     Action = "skip"
	ActionEdit     Action = "edit"
	ActionNotError Action = "noterror"
)

func (a Action) String() string { return string(a) }

func (a Action) IsValid() bool {
	switch a {
	case ActionFix, ActionSkip, ActionEdit, ActionNotError:
		return true
	}
	return false
}

// IsTerminal reports whether the action retires the item for good.
func (a Action) IsTerminal() bool {
	return a == ActionFix || a == ActionNotError
}

// ResolutionKind says why an item was permanently retired.
type ResolutionKind string

const (
	ResolutionFixed    ResolutionKind = "fixed"
	ResolutionNotError ResolutionKind = "noterror"
)

func (k ResolutionKind) String() string { return string(k) }

func (k ResolutionKind) IsValid() bool {
	switch k {
	case ResolutionFixed, ResolutionNotError:
		return true
	}
	return false
}

// IngestStage names one step of the ingestion pipeline, in execution order.
type IngestStage string

const (
	StageValidate    IngestStage = "validate"
	StagePersist     IngestStage = "persist"
	StageReformat    IngestStage = "reformat"
	StageStage       IngestStage = "stage"
	StageMaterialize IngestStage = "materialize"
	StageIndex       IngestStage = "index"
	StageEventLog    IngestStage = "event_log"
	StageDropStaging IngestStage = "drop_staging"
	StageRegister    IngestStage = "register"
	StageCommit      IngestStage = "commit"
)

func (s IngestStage) String() string { return string(s) }

// HistoryGrouping is the bucket width of an event count history.
type HistoryGrouping string

const (
	GroupHour  HistoryGrouping = "hour"
	GroupDay   HistoryGrouping = "day"
	GroupWeek  HistoryGrouping = "week"
	GroupMonth HistoryGrouping = "month"
)

func (g HistoryGrouping) String() string { return string(g) }

func (g HistoryGrouping) IsValid() bool {
	switch g {
	case GroupHour, GroupDay, GroupWeek, GroupMonth:
		return true
	}
	return false
}
