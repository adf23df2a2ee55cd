package observability

import (
	"context"

	"fundbridge/events"
)

// RegisterEventMetrics subscribes the provider to domain events on the bus
func RegisterEventMetrics(bus *events.Bus, mp *MetricsProvider) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		mp.RecordEvent(string(event.Type()))

		switch e := event.(type) {
		case events.BalanceChangedEvent:
			mp.RecordBalanceTransaction(e.TransactionType.String())
		case events.InvestmentCreatedEvent:
			mp.RecordInvestment(e.TierName, e.Amount)
		case events.ProfitDistributedEvent:
			mp.RecordDistribution(e.TotalProfit)
		}
	})
}
