package contract

// ToolCallRequest is a capability's structured request to invoke a registered
// tool. Arguments arrive raw and unvalidated; the dispatcher owns validation.
type ToolCallRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries a tool's outcome. A non-empty Error is a soft,
// user-facing failure: the turn continues, nothing retries.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CapabilityReply is what a capability call produces for one turn: either a
// natural-language message or a tool-call request, never both.
type CapabilityReply struct {
	Message  string           `json:"message,omitempty"`
	ToolCall *ToolCallRequest `json:"tool_call,omitempty"`
}

type StockStatus string

const (
	StockInStock      StockStatus = "in_stock"
	StockOutOfStock   StockStatus = "out_of_stock"
	StockDiscontinued StockStatus = "discontinued"
)

type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Category       string            `json:"category,omitempty"`
	Description    string            `json:"description,omitempty"`
	Price          float64           `json:"price"`
	Stock          StockStatus       `json:"stock"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

func (p Product) InStock() bool {
	return p.Stock == StockInStock
}

// Match is one similarity-lookup hit, ordered by descending score.
type Match struct {
	ProductID string  `json:"product_id"`
	Score     float64 `json:"score"`
}
