package core

import "time"

// MaxCommentLength is the upper bound on comment content, in runes.
const MaxCommentLength = 200

// Timeframe represents a chart timeframe selectable by the client.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe3m  Timeframe = "3m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe1H  Timeframe = "1H"
	Timeframe4H  Timeframe = "4H"
	Timeframe1D  Timeframe = "1D"
	Timeframe1W  Timeframe = "1W"
)

// Candle represents a single OHLCV bar. Time is a UNIX timestamp in seconds,
// matching the wire format the chart consumes.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Comment is a short reaction anchored to a time/price point on the chart.
type Comment struct {
	ID          int64   `json:"id"`
	Timestamp   int64   `json:"timestamp"`
	Price       float64 `json:"price"`
	Content     string  `json:"content"`
	EmotionIcon string  `json:"emotion_icon,omitempty"`
	AuthorID    string  `json:"author_id,omitempty"`
}

// IsValid checks the comment has content within bounds and a usable anchor.
func (c Comment) IsValid() bool {
	if c.Content == "" || len([]rune(c.Content)) > MaxCommentLength {
		return false
	}
	return c.Timestamp > 0 && c.Price > 0
}

// Sentiment is the aggregate buy/sell indicator over a comment window.
type Sentiment struct {
	BuyPercentage  float64 `json:"buy_percentage"`
	SellPercentage float64 `json:"sell_percentage"`
	TotalComments  int     `json:"total_comments"`
}

// Quote summarizes the latest traded price for market_update broadcasts.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Time          time.Time `json:"timestamp"`
}
