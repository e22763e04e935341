package market

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type OrderStatus string

const (
	StatusSimulated OrderStatus = "SIMULATED"
	StatusFilled    OrderStatus = "FILLED"
	StatusRejected  OrderStatus = "REJECTED"
	StatusError     OrderStatus = "ERROR"
)

// Order 描述一次下单结果（模拟或实盘共用）。
type Order struct {
	Symbol       string      `json:"symbol"`
	Side         Side        `json:"side"`
	RequestedQty string      `json:"requested_qty"`
	ExecutedQty  string      `json:"executed_qty"`
	Price        string      `json:"price"`
	QuoteQty     string      `json:"quote_qty"`
	Status       OrderStatus `json:"status"`
}
