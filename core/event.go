package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// event types emitted by the market manager
const (
	EventMarketListed            = "market_listed"
	EventMarketEntered           = "market_entered"
	EventMarketExited            = "market_exited"
	EventCollateralTokenUpdated  = "collateral_token_updated"
	EventActionPaused            = "action_paused"
	EventNewBorrowCap            = "new_borrow_cap"
	EventNewCollateralCap        = "new_collateral_cap"
	EventNewCloseFactor          = "new_close_factor"
	EventNewLiquidationIncentive = "new_liquidation_incentive"
	EventNewPositionFolding      = "new_position_folding"
	EventLiquidation             = "liquidation"
)

// Event observability record written alongside every risk-policy change
type Event struct {
	ID           uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID      string    `sql:"size:36;unique_index:event_trace_idx" json:"trace_id"`
	Type         string    `sql:"size:36;index:event_type_idx" json:"type"`
	TokenAddress string    `sql:"size:64" json:"token_address"`
	Account      string    `sql:"size:64" json:"account"`
	Data         string    `sql:"type:text" json:"data"`
	CreatedAt    time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SetData marshal the payload into the data column
func (e *Event) SetData(v interface{}) {
	if v == nil {
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		return
	}

	e.Data = string(b)
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
	FindByType(ctx context.Context, eventType string, limit int) ([]*Event, error)
}
