package member

// Member is a person taking part in task rotations.
// Rotation order is ID ascending; IDs are never reused.
type Member struct {
	ID                 int64  `json:"id" yaml:"id"`
	DisplayName        string `json:"displayName" yaml:"displayName"`
	NotificationHandle string `json:"notificationHandle" yaml:"notificationHandle"` // e.g. Slack member ID
}
