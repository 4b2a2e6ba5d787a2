package domain

// NotificationEvent is the decoded payload of a Gmail Pub/Sub push
// notification. HistoryID is carried for logging and webhook dedup; the
// pipeline always fetches the newest message rather than walking history.
type NotificationEvent struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId,omitempty"`
}
