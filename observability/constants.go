package observability

// Metric name prefixes
const (
	MetricPrefix = "fundbridge"
)

// Metric names
const (
	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"

	// Investment metrics
	InvestmentsTotal = MetricPrefix + ".investments.total"
	InvestedAmount   = MetricPrefix + ".investments.amount"

	// Distribution metrics
	DistributionsTotal = MetricPrefix + ".distributions.total"
	PayoutAmount       = MetricPrefix + ".distributions.payout_amount"

	// Balance metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Event metrics
	EventsEmittedTotal = MetricPrefix + ".events.emitted_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelTier      = "tier"

	// HTTP labels
	LabelRoute  = "route"
	LabelStatus = "status"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)
