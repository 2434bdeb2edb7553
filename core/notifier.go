package core

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	alog "github.com/jigsaw-addv/coordinator/log"
)

// Notifier tells an operator's chat when a domain reaches a terminal
// verdict. It generalizes the predecessor's generic webhook
// (NotifierSend/NotifyOnAuth) to a concrete sink the original never
// actually wired up: the coordinator has no UI of its own, so a push
// notification is the only way an operator learns that example.com just
// got VALIDATED or INVALIDATED without tailing the JSONL log.
//
// It is entirely optional: with no bot token configured, NewNotifier
// returns a Notifier whose Notify calls are no-ops.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier builds a Notifier from a bot token and destination chat ID.
// An empty token disables notification without error — most deployments
// won't set one, and verdicts are still fully recorded in the JSONL log.
func NewNotifier(botToken string, chatID int64) *Notifier {
	if botToken == "" {
		return &Notifier{}
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		alog.Warning("notifier: could not start telegram bot: %v", err)
		return &Notifier{}
	}
	return &Notifier{bot: bot, chatID: chatID}
}

// Notify sends a one-line verdict summary. Delivery failures are logged
// and otherwise ignored — a notification failure must never affect the
// consensus protocol that produced the verdict.
func (n *Notifier) Notify(v Verdict) {
	if n == nil || n.bot == nil {
		return
	}
	text := fmt.Sprintf("%s: %s (%d ips, %d answers)", v.Kind, v.Domain, len(v.IPs), len(v.Answers))
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		alog.Warning("notifier: failed to send verdict for %s: %v", v.Domain, err)
	}
}
