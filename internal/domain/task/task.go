package task

// Task is a recurring duty rotated among members.
type Task struct {
	ID           int64  `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	RotationRule string `json:"rotationRule" yaml:"rotationRule"` // e.g. "daily", "weekly_friday"
	// PreviewLookahead is how many upcoming assignees are shown in announcements (0 = none).
	PreviewLookahead int `json:"previewLookahead" yaml:"previewLookahead"`
}
