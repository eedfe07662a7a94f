package parser

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

var (
	timeColRe  = regexp.MustCompile(`time`)
	typeColRe  = regexp.MustCompile(`offer|type`)
	itemColRe  = regexp.MustCompile(`item`)
	priceColRe = regexp.MustCompile(`price`)
	qtyColRe   = regexp.MustCompile(`qty|quantity`)
)

// offerColumns holds the resolved column positions of an offer log.
type offerColumns struct {
	time, typ, item, price, qty int
}

func resolveOfferColumns(header []string) (offerColumns, bool) {
	cols := offerColumns{
		time:  indexMatch(header, timeColRe),
		typ:   indexMatch(header, typeColRe),
		item:  indexMatch(header, itemColRe),
		price: indexMatch(header, priceColRe),
		qty:   indexMatch(header, qtyColRe),
	}
	ok := cols.time >= 0 && cols.typ >= 0 && cols.item >= 0 &&
		cols.price >= 0 && cols.qty >= 0
	return cols, ok
}

// parseOfferLog reconstructs flips from one-sided buy and sell events via
// FIFO inventory matching, per item.
//
// Offers are sorted chronologically across the whole import. A buy appends
// an open lot to the back of its item's queue; a sell consumes lots from
// the front, emitting one flip per consumed lot. Queue order is arrival
// order, never price order. Sell quantity that exceeds everything ever
// bought is dropped silently: incomplete history is tolerated, not
// rejected.
func parseOfferLog(header []string, rows [][]string, taxRate float64) ([]domain.Flip, error) {
	cols, ok := resolveOfferColumns(header)
	if !ok {
		return nil, fmt.Errorf("%w: offer log header is missing required columns", ErrUnrecognizedFormat)
	}

	offers := make([]domain.Offer, 0, len(rows))
	for _, row := range rows {
		offer := domain.Offer{
			Ts:    parseEventTime(cell(row, cols.time)),
			Item:  cell(row, cols.item),
			Type:  domain.ParseOfferType(cell(row, cols.typ)),
			Qty:   int64(parseNumber(cell(row, cols.qty))),
			Price: parseNumber(cell(row, cols.price)),
		}
		// Rows without a usable item, quantity or price never reach the
		// matcher.
		if offer.Item == "" || offer.Qty <= 0 || offer.Price <= 0 {
			continue
		}
		offers = append(offers, offer)
	}

	// Stable sort keeps file order for equal timestamps, so matching is
	// fully deterministic.
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Ts.Before(offers[j].Ts)
	})

	// One ordered queue of open lots per item, scoped to this call.
	queues := make(map[string][]domain.Lot)
	flips := make([]domain.Flip, 0, len(offers))

	for _, o := range offers {
		if o.Type == domain.OfferTypeBuy {
			queues[o.Item] = append(queues[o.Item], domain.Lot{Qty: o.Qty, Price: o.Price})
			continue
		}

		remaining := o.Qty
		netSell := o.Price * (1 - taxRate)
		for remaining > 0 && len(queues[o.Item]) > 0 {
			lot := &queues[o.Item][0]
			take := remaining
			if lot.Qty < take {
				take = lot.Qty
			}

			flips = append(flips, domain.Flip{
				ID:        uuid.New(),
				Item:      o.Item,
				Qty:       take,
				BuyPrice:  lot.Price,
				SellPrice: netSell,
				Ts:        o.Ts,
			})

			lot.Qty -= take
			remaining -= take
			if lot.Qty <= 0 {
				queues[o.Item] = queues[o.Item][1:]
			}
		}
	}

	return flips, nil
}
