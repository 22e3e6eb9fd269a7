package audit

import (
	"context"

	"github.com/BlackEmpir7199/StudySphere/pkg/log"
)

// Audit actions.
const (
	ActionConnect        = "chat.connect"
	ActionAuthFailed     = "chat.auth_failed"
	ActionJoinChannel    = "chat.join_channel"
	ActionLeaveChannel   = "chat.leave_channel"
	ActionSendMessage    = "chat.send_message"
	ActionMessageFlagged = "chat.message_flagged"
	ActionDisconnect     = "chat.disconnect"

	ActionRegister    = "auth.register"
	ActionLoginFailed = "auth.login_failed"

	ActionQuizSubmitted    = "quiz.submitted"
	ActionResourceRejected = "resource.rejected"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action string, userID string, detail string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldDetail, detail).
		Msg(msg)
}
