package domain

// NoticeLevel classifies a user-facing notification.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a non-blocking notification surfaced to the presentation layer
// alongside a successful response. A warning notice signals that the local
// state change was applied but the backend could not be reached, so the
// persisted cart may have diverged.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

// Notice codes emitted by the synchronization workflows.
const (
	NoticeCodeSyncDegraded  = "SYNC_DEGRADED"
	NoticeCodeAlreadyExists = "ALREADY_EXISTS"
	NoticeCodeItemRemoved   = "ITEM_REMOVED"
)

// WarningNotice builds a warning-level notice.
func WarningNotice(code, message string) *Notice {
	return &Notice{Level: NoticeWarning, Code: code, Message: message}
}

// InfoNotice builds an info-level notice.
func InfoNotice(code, message string) *Notice {
	return &Notice{Level: NoticeInfo, Code: code, Message: message}
}
