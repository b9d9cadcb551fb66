package claims

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/ruthless-bot/ruthless/internal/domain/ledger"
	"github.com/ruthless-bot/ruthless/internal/domain/settings"
)

//go:generate mockgen -destination=mock/dependencies.go -package=mock . Verifier,Notifier

type State int

const (
	StateAwaitingVerification State = iota
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateAwaitingVerification:
		return "awaiting_verification"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Claim is a requester's reservation of one item pending verification.
// Requester is also the claim's key.
type Claim struct {
	Requester    snowflake.ID
	Scope        snowflake.ID
	Module       string
	Item         string
	LinkID       string
	URL          string
	State        State
	CreatedAt    time.Time
	ReminderSent bool
}

// Link is a verification link issued by the external service.
type Link struct {
	URL string
	ID  string
}

// Verifier is the external verification service.
type Verifier interface {
	CreateLink(ctx context.Context, requester snowflake.ID, module string, item string) (Link, error)
	// IsComplete reports whether the link was completed. Any error is
	// treated by callers as "not yet".
	IsComplete(ctx context.Context, linkID string) (bool, error)
}

// Notifier delivers messages to requesters. Failures are never retried.
type Notifier interface {
	DeliverItem(ctx context.Context, claim Claim) error
	RemindPending(ctx context.Context, claim Claim) error
}

// Directory resolves display names for ledger entries.
type Directory interface {
	UserName(ctx context.Context, id snowflake.ID) string
	ScopeName(ctx context.Context, id snowflake.ID) string
}

// Inventory is the slice of the inventory store the claim lifecycle needs.
type Inventory interface {
	ListModules(ctx context.Context, scope snowflake.ID) ([]string, error)
	ListItems(ctx context.Context, scope snowflake.ID, module string) ([]string, error)
	RemoveOne(ctx context.Context, scope snowflake.ID, module string, item string) (bool, error)
}

type Settings interface {
	Get(scope snowflake.ID, key settings.Key) int
}

type Recorder interface {
	Record(entry ledger.Entry)
}
