package types

// Contributor permission codes
const (
	PermissionComplete = "CP" // full control over the project
	PermissionLimited  = "LI"
)

// Contributor role codes
const (
	RoleAuthor      = "AU"
	RoleContributor = "CT"
)

// Project type values
const (
	ProjectBackend  = "backend"
	ProjectFrontend = "frontend"
	ProjectAndroid  = "android"
	ProjectIOS      = "ios"
)

// Issue tag values
const (
	TagBug         = "bug"
	TagImprovement = "improvement"
	TagTask        = "task"
)

// Issue priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Issue status values
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Valid values for validation
var ValidProjectTypes = []string{
	ProjectBackend, ProjectFrontend, ProjectAndroid, ProjectIOS,
}

var ValidTags = []string{
	TagBug, TagImprovement, TagTask,
}

var ValidPriorities = []string{
	PriorityLow, PriorityMedium, PriorityHigh,
}

var ValidIssueStatuses = []string{
	StatusTodo, StatusInProgress, StatusDone,
}

// Helper functions for validation
func IsValidProjectType(projectType string) bool {
	return contains(ValidProjectTypes, projectType)
}

func IsValidTag(tag string) bool {
	return contains(ValidTags, tag)
}

func IsValidPriority(priority string) bool {
	return contains(ValidPriorities, priority)
}

func IsValidIssueStatus(status string) bool {
	return contains(ValidIssueStatuses, status)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
