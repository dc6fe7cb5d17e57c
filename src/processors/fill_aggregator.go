// backend/src/processors/fill_aggregator.go
package processors

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/tradejournal/backend/src/instruments"
	"github.com/username/tradejournal/backend/src/models"
)

// AggregationResult is the output of one FillAggregator.Process call.
type AggregationResult struct {
	Trades        []models.ClosedTrade
	OpenPositions []models.OpenPosition // still open at end of input, never emitted as trades
	UsedFallback  bool
}

// FillAggregator rebuilds round-trip trades from an ordered stream of fills.
// It holds no per-call state and is safe for concurrent use.
type FillAggregator struct {
	specs             *instruments.Table
	allowFillFallback bool
}

// NewFillAggregator creates an aggregator. With allowFillFallback set, an input that
// yields no round trip is returned as one degenerate trade per fill instead of failing.
func NewFillAggregator(specs *instruments.Table, allowFillFallback bool) *FillAggregator {
	if specs == nil {
		specs = instruments.DefaultTable()
	}
	return &FillAggregator{specs: specs, allowFillFallback: allowFillFallback}
}

// positionState tracks one account|instrument key. netPosition always equals
// sum(lots.Quantity) * side.Sign().
type positionState struct {
	account     string
	instrument  string
	lots        []models.OpenLot
	netPosition int64
	side        models.Side

	entryTime     time.Time
	entryID       string
	entryNotional decimal.Decimal
	entryQuantity int64
	closeNotional decimal.Decimal
	closeQuantity int64
	realizedPnL   decimal.Decimal
	commission    decimal.Decimal
}

func (st *positionState) reset() {
	*st = positionState{account: st.account, instrument: st.instrument}
}

// open starts a fresh position from qty units of f.
func (st *positionState) open(f models.FillEvent, qty int64, commission decimal.Decimal) {
	st.reset()
	st.side = f.Side
	st.entryTime = f.Timestamp
	st.entryID = f.OrderID
	st.commission = commission
	st.add(f, qty)
}

func (st *positionState) add(f models.FillEvent, qty int64) {
	st.lots = append(st.lots, models.OpenLot{Quantity: qty, Price: f.Price, Timestamp: f.Timestamp})
	st.entryNotional = st.entryNotional.Add(f.Price.Mul(decimal.NewFromInt(qty)))
	st.entryQuantity += qty
	st.netPosition += st.side.Sign() * qty
}

// close drains the FIFO lot queue against f and returns the unmatched remainder.
func (st *positionState) close(f models.FillEvent, spec instruments.Spec) int64 {
	remaining := f.Quantity
	for remaining > 0 && len(st.lots) > 0 {
		lot := &st.lots[0]
		matched := min(lot.Quantity, remaining)
		qty := decimal.NewFromInt(matched)

		// Lots are always the opening side, so the difference is never mirrored.
		diff := f.Price.Sub(lot.Price)
		st.realizedPnL = st.realizedPnL.Add(diff.Mul(spec.TickValue).Mul(qty).Div(spec.TickSize))
		st.closeNotional = st.closeNotional.Add(f.Price.Mul(qty))
		st.closeQuantity += matched

		lot.Quantity -= matched
		remaining -= matched
		st.netPosition -= st.side.Sign() * matched
		if lot.Quantity == 0 {
			st.lots = st.lots[1:]
		}
	}
	return remaining
}

func (st *positionState) trade(f models.FillEvent) models.ClosedTrade {
	return models.ClosedTrade{
		Account:       st.account,
		Instrument:    st.instrument,
		EntryID:       st.entryID,
		CloseID:       f.OrderID,
		Quantity:      st.closeQuantity,
		AvgEntryPrice: average(st.entryNotional, st.entryQuantity),
		AvgClosePrice: average(st.closeNotional, st.closeQuantity),
		EntryTime:     st.entryTime,
		CloseTime:     f.Timestamp,
		RealizedPnL:   st.realizedPnL,
		Side:          st.side,
		Commission:    st.commission,
	}
}

// apply feeds one fill into st and returns the trade it completed, if any.
func (st *positionState) apply(f models.FillEvent, spec instruments.Spec) *models.ClosedTrade {
	if st.netPosition == 0 {
		st.open(f, f.Quantity, f.Commission)
		return nil
	}
	if f.Side == st.side {
		st.add(f, f.Quantity)
		st.commission = st.commission.Add(f.Commission)
		return nil
	}

	remaining := st.close(f, spec)
	closedQty := f.Quantity - remaining
	closingCommission := prorate(f.Commission, closedQty, f.Quantity)
	st.commission = st.commission.Add(closingCommission)

	var done *models.ClosedTrade
	if st.netPosition == 0 && st.closeQuantity > 0 {
		t := st.trade(f)
		done = &t
		st.reset()
	}
	if remaining > 0 {
		// Flip through flat: the leftover opens a new position on the fill's side.
		st.open(f, remaining, f.Commission.Sub(closingCommission))
	}
	return done
}

// Process consumes fills in input order (no re-sort; ties keep input order) and
// returns the closed trades in the order they completed.
func (a *FillAggregator) Process(fills []models.FillEvent) (AggregationResult, error) {
	states := make(map[string]*positionState)
	var result AggregationResult

	for _, f := range fills {
		key := f.Key()
		st, ok := states[key]
		if !ok {
			st = &positionState{account: f.Account, instrument: f.Instrument}
			states[key] = st
		}
		if trade := st.apply(f, a.specs.Lookup(f.Instrument)); trade != nil {
			result.Trades = append(result.Trades, *trade)
		}
	}
	result.OpenPositions = openPositions(states)

	if len(result.Trades) > 0 {
		return result, nil
	}
	if !a.allowFillFallback || len(fills) == 0 {
		return result, fmt.Errorf("%w: %d fills, no round trip returned to flat", models.ErrNoTradesProduced, len(fills))
	}

	// Degrade: every fill becomes its own zero-PnL, zero-duration trade.
	result.UsedFallback = true
	result.OpenPositions = nil
	for _, f := range fills {
		closeID := f.ParentOrderID
		if closeID == "" {
			closeID = f.OrderID
		}
		result.Trades = append(result.Trades, models.ClosedTrade{
			Account:       f.Account,
			Instrument:    f.Instrument,
			EntryID:       f.OrderID,
			CloseID:       closeID,
			Quantity:      f.Quantity,
			AvgEntryPrice: f.Price,
			AvgClosePrice: f.Price,
			EntryTime:     f.Timestamp,
			CloseTime:     f.Timestamp,
			RealizedPnL:   decimal.Zero,
			Side:          f.Side,
			Commission:    f.Commission,
		})
	}
	return result, nil
}

func openPositions(states map[string]*positionState) []models.OpenPosition {
	keys := make([]string, 0, len(states))
	for k, st := range states {
		if st.netPosition != 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []models.OpenPosition
	for _, k := range keys {
		st := states[k]
		out = append(out, models.OpenPosition{
			Account:       st.account,
			Instrument:    st.instrument,
			Side:          st.side,
			Quantity:      st.netPosition * st.side.Sign(),
			AvgEntryPrice: st.openLotsAverage(),
			EntryDate:     models.FormatTimestamp(st.entryTime),
		})
	}
	return out
}

// openLotsAverage is the volume-weighted price of the lots still open.
func (st *positionState) openLotsAverage() decimal.Decimal {
	notional := decimal.Zero
	var qty int64
	for _, lot := range st.lots {
		notional = notional.Add(lot.Price.Mul(decimal.NewFromInt(lot.Quantity)))
		qty += lot.Quantity
	}
	return average(notional, qty)
}

func average(notional decimal.Decimal, qty int64) decimal.Decimal {
	if qty == 0 {
		return decimal.Zero
	}
	return notional.Div(decimal.NewFromInt(qty))
}

func prorate(amount decimal.Decimal, part, whole int64) decimal.Decimal {
	if whole == 0 || part == whole {
		return amount
	}
	return amount.Mul(decimal.NewFromInt(part)).Div(decimal.NewFromInt(whole))
}
