// Package audit records security-relevant events. Sinks are fire-and-forget:
// a failing sink logs the problem and never fails the operation that
// produced the event.
package audit

import (
	"context"
	"strings"
)

// Kind classifies an audit event.
type Kind string

const (
	KindSystem       Kind = "system"
	KindRegister     Kind = "register"
	KindLoginSuccess Kind = "login-success"
	KindLoginFail    Kind = "login-fail"
	KindLockout      Kind = "lockout"
	KindLogout       Kind = "logout"
	KindUpload       Kind = "upload"
	KindDelete       Kind = "delete"
	KindUpgrade      Kind = "upgrade"
	KindAdminAction  Kind = "admin-action"
)

// Kinds lists all event kinds.
var Kinds = []Kind{
	KindSystem,
	KindRegister,
	KindLoginSuccess,
	KindLoginFail,
	KindLockout,
	KindLogout,
	KindUpload,
	KindDelete,
	KindUpgrade,
	KindAdminAction,
}

// Tag is the upper-case label written to the system log.
func (k Kind) Tag() string {
	if k == KindAdminAction {
		return "ADMIN"
	}
	return strings.ToUpper(strings.ReplaceAll(string(k), "-", "_"))
}

type Sink interface {
	Record(ctx context.Context, kind Kind, detail string)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Record(context.Context, Kind, string) {}

// Multi fans an event out to several sinks in order.
type Multi []Sink

func (m Multi) Record(ctx context.Context, kind Kind, detail string) {
	for _, s := range m {
		s.Record(ctx, kind, detail)
	}
}
