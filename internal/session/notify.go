package session

import "github.com/sirupsen/logrus"

// NotifyKind classifies a notification.
type NotifyKind string

const (
	NotifyInfo    NotifyKind = "info"
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

// Notifier is the fire-and-forget notification surface (toasts in the TUI).
type Notifier interface {
	Notify(kind NotifyKind, title, detail string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind NotifyKind, title, detail string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(kind NotifyKind, title, detail string) { f(kind, title, detail) }

// LogNotifier writes notifications to the standard logrus logger.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(kind NotifyKind, title, detail string) {
	entry := logrus.WithField("kind", string(kind))
	if detail != "" {
		entry = entry.WithField("detail", detail)
	}
	switch kind {
	case NotifyError:
		entry.Warn(title)
	default:
		entry.Info(title)
	}
}

type discardNotifier struct{}

func (discardNotifier) Notify(NotifyKind, string, string) {}
