package ui

import "time"

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

const toastDuration = 4 * time.Second

// toast is a transient status-line message. It is checked against the clock
// on every render rather than cleared by a timer.
type toast struct {
	text    string
	kind    toastKind
	expires time.Time
}

func newToast(text string, kind toastKind) toast {
	return toast{text: text, kind: kind, expires: time.Now().Add(toastDuration)}
}

func (t toast) active(now time.Time) bool {
	return t.text != "" && now.Before(t.expires)
}
