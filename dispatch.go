package main

const (
	WM_APP           = 0x8000
	WM_APP_BAR_POS   = WM_APP + 1 // shell repositioning-notification callback
	WM_APP_REFRESH   = WM_APP + 2 // window-set changed, rebuild entries
	WM_APP_BAR_DO    = WM_APP + 3 // drain the control-thread op queue
	WM_APP_ICON_REAP = WM_APP + 4

	WM_WINDOWPOSCHANGING     = 0x0046
	WM_DISPLAYCHANGE         = 0x007E
	WM_DPICHANGED            = 0x02E0
	WM_DWMCOMPOSITIONCHANGED = 0x031E

	// ABN_POSCHANGED is the notification code the shell delivers in
	// wParam of the registered callback message.
	ABN_POSCHANGED = 0x0001
)

type messageAction func(wParam, lParam uintptr)

// messageDispatcher routes the bar window's own message stream. It is a
// finite table keyed by message id; anything not in the table passes
// through to the default window procedure. Dispatch runs synchronously
// on the message-loop thread and handlers must not block.
type messageDispatcher struct {
	table map[uint32]messageAction
}

func newMessageDispatcher() *messageDispatcher {
	return &messageDispatcher{table: make(map[uint32]messageAction)}
}

func (d *messageDispatcher) Handle(msg uint32, fn messageAction) {
	d.table[msg] = fn
}

// Dispatch invokes the action registered for msg. The bool reports
// whether the message was consumed.
func (d *messageDispatcher) Dispatch(msg uint32, wParam, lParam uintptr) bool {
	fn, ok := d.table[msg]
	if !ok {
		return false
	}
	fn(wParam, lParam)
	return true
}

// buildDispatcher wires the recognized triggers to controller actions.
// Everything position-related funnels into one renegotiation path; the
// composition toggle is an explicit no-op kept for future visual
// adaptation.
func buildDispatcher(c *dockBarController) *messageDispatcher {
	d := newMessageDispatcher()
	renegotiate := func(wParam, lParam uintptr) {
		c.appbar.Negotiate()
	}
	d.Handle(WM_WINDOWPOSCHANGING, renegotiate)
	d.Handle(WM_DISPLAYCHANGE, func(wParam, lParam uintptr) {
		logf("[DISPATCH] display configuration changed")
		c.appbar.Negotiate()
	})
	d.Handle(WM_DPICHANGED, func(wParam, lParam uintptr) {
		logf("[DISPATCH] DPI changed")
		c.appbar.Negotiate()
	})
	d.Handle(WM_APP_BAR_POS, func(wParam, lParam uintptr) {
		if wParam == ABN_POSCHANGED {
			c.appbar.Negotiate()
		}
	})
	d.Handle(WM_DWMCOMPOSITIONCHANGED, func(wParam, lParam uintptr) {})
	d.Handle(WM_APP_REFRESH, func(wParam, lParam uintptr) {
		c.Refresh()
	})
	return d
}
