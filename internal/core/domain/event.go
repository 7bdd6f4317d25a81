package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an emitted ledger event.
type EventType string

const (
	EventCreditsIssued      EventType = "CreditsIssued"
	EventCreditsTransferred EventType = "CreditsTransferred"
	EventCreditsRetired     EventType = "CreditsRetired"
	EventPaused             EventType = "Paused"
	EventUnpaused           EventType = "Unpaused"
	EventRoleGranted        EventType = "RoleGranted"
	EventRoleRevoked        EventType = "RoleRevoked"
)

// Event is the envelope delivered to event sinks. Seq is the record sequence
// for credit events and the admin sequence for administrative ones.
type Event struct {
	Type      EventType   `json:"type"`
	Seq       uint64      `json:"seq"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

type CreditsIssued struct {
	BatchID          BatchID         `json:"batch_id"`
	To               Identity        `json:"to"`
	Amount           decimal.Decimal `json:"amount"`
	Facility         string          `json:"facility"`
	HydrogenAmount   decimal.Decimal `json:"hydrogen_amount"`
	VerificationHash string          `json:"verification_hash"`
	Timestamp        time.Time       `json:"timestamp"`
}

type CreditsTransferred struct {
	BatchID   BatchID         `json:"batch_id"`
	From      Identity        `json:"from"`
	To        Identity        `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type CreditsRetired struct {
	BatchID          BatchID         `json:"batch_id"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Timestamp        time.Time       `json:"timestamp"`
}

type PauseChanged struct {
	Actor     Identity  `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

type RoleChanged struct {
	Subject   Identity  `json:"subject"`
	Role      Role      `json:"role"`
	Actor     Identity  `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// EventFromRecord builds the event emitted for a committed record.
func EventFromRecord(r *TransactionRecord, remaining decimal.Decimal) Event {
	ev := Event{Seq: r.Seq, Timestamp: r.Timestamp}
	switch r.Kind {
	case RecordIssue:
		ev.Type = EventCreditsIssued
		ev.Data = CreditsIssued{
			BatchID:          r.BatchID,
			To:               r.To,
			Amount:           r.Amount,
			Facility:         r.Facility,
			HydrogenAmount:   r.HydrogenAmount,
			VerificationHash: r.VerificationHash,
			Timestamp:        r.Timestamp,
		}
	case RecordTransfer:
		ev.Type = EventCreditsTransferred
		ev.Data = CreditsTransferred{
			BatchID:   r.BatchID,
			From:      r.From,
			To:        r.To,
			Amount:    r.Amount,
			Timestamp: r.Timestamp,
		}
	case RecordRetire:
		ev.Type = EventCreditsRetired
		ev.Data = CreditsRetired{
			BatchID:          r.BatchID,
			Amount:           r.Amount,
			RemainingBalance: remaining,
			Timestamp:        r.Timestamp,
		}
	}
	return ev
}

// EventFromAdmin builds the event emitted for a committed admin event.
func EventFromAdmin(a *AdminEvent) Event {
	ev := Event{Seq: a.Seq, Timestamp: a.Timestamp}
	switch a.Kind {
	case AdminPaused, AdminUnpaused:
		ev.Type = EventPaused
		if a.Kind == AdminUnpaused {
			ev.Type = EventUnpaused
		}
		ev.Data = PauseChanged{Actor: a.Actor, Timestamp: a.Timestamp}
	case AdminRoleGranted, AdminRoleRevoked:
		ev.Type = EventRoleGranted
		if a.Kind == AdminRoleRevoked {
			ev.Type = EventRoleRevoked
		}
		ev.Data = RoleChanged{Subject: a.Subject, Role: a.Role, Actor: a.Actor, Timestamp: a.Timestamp}
	}
	return ev
}
