package model

// Source names where an observation came from.
type Source string

const (
	SourceSMS          Source = "sms"
	SourceCaptured     Source = "captured"
	SourceNotification Source = "notification"
)

// Message is an SMS inbox entry or a captured-log entry.
type Message struct {
	Number string `json:"number"`
	Body   string `json:"body"`
}

// Notification is an active system notification.
type Notification struct {
	PackageName string `json:"packageName"`
	Title       string `json:"title"`
	Content     string `json:"content"`
}

// TxnKind classifies the transaction a bank message reports.
type TxnKind string

const (
	TxnDeposit    TxnKind = "입금"
	TxnWithdrawal TxnKind = "출금"
	TxnUnknown    TxnKind = ""
)

// Observation is one balance extracted from a message or notification.
type Observation struct {
	Institution Institution
	Balance     int64
	Source      Source
	Sender      string // phone number or package name
	Kind        TxnKind
	Amount      int64  // 0 if the text carries no amount
	Account     string // masked account number, if present
	Raw         string
}
