package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Publisher is the subset of NatsServer the notifier needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Notification is the out-of-band event envelope delivered on a player's
// subject. The chat adapter renders it for the end user.
type Notification struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	Amount  float64   `json:"amount,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

const (
	KindAFK    = "afk"
	KindIncome = "income"
)

// Notifier publishes player notifications to per-player subjects,
// player-<id>.
type Notifier struct {
	pub Publisher
}

func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{pub: pub}
}

// NotifyAFK tells a player they were flagged inactive.
func (n *Notifier) NotifyAFK(id int64) error {
	return n.publish(id, Notification{
		Kind:    KindAFK,
		Message: "You went AFK due to inactivity. Use /back to return.",
		SentAt:  time.Now(),
	})
}

// NotifyIncome tells a player idle income was granted.
func (n *Notifier) NotifyIncome(id int64, amount float64) error {
	return n.publish(id, Notification{
		Kind:    KindIncome,
		Message: fmt.Sprintf("Idle income: +%.0f coins.", amount),
		Amount:  amount,
		SentAt:  time.Now(),
	})
}

func (n *Notifier) publish(id int64, note Notification) error {
	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	return n.pub.Publish(PlayerSubject(id), data)
}

// PlayerSubject returns the per-player notification subject.
func PlayerSubject(id int64) string {
	return fmt.Sprintf("player-%d", id)
}
