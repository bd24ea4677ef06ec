package alert

// EventKind tells which platform signal produced an event.
type EventKind string

const (
	// KindCall is an incoming call in the ringing state.
	KindCall EventKind = "call"
	// KindSms is a delivered text message.
	KindSms EventKind = "sms"
)

// Event is one incoming call or message, already stripped of transport detail.
type Event struct {
	// ID correlates the decision, notification and override session.
	ID string
	// Kind selects the call or SMS path.
	Kind EventKind
	// Number is the caller ID or originating address as delivered.
	Number string
	// Body is the message text; empty for calls.
	Body string
}

// Priority of a posted notification.
type Priority string

const (
	// PriorityMax asks the host for a heads-up, lock-screen visible notification.
	PriorityMax Priority = "max"
)

// Category of a posted notification.
type Category string

const (
	// CategoryCall marks a call notification.
	CategoryCall Category = "call"
	// CategoryMessage marks a message notification.
	CategoryMessage Category = "msg"
)

// Notification is handed to the host notification sink when an alert fires.
type Notification struct {
	EventID  string
	Title    string
	Body     string
	Priority Priority
	Category Category
}
