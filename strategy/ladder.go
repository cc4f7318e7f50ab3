package strategy

// levelStep 每往外一档，价差放大的比例。
const levelStep = 0.5

// BuildLadder 生成 levels 档买卖报价，最外层在最后。
// 第 i 档价差乘以 1+(i-1)*0.5，数量按 1/i 递减。
func BuildLadder(close, spread float64, skew Skew, levels int, amount float64) (bids, asks []Level) {
	if levels <= 0 {
		return nil, nil
	}
	bids = make([]Level, 0, levels)
	asks = make([]Level, 0, levels)
	bidSpread := spread * skew.Bid
	askSpread := spread * skew.Ask
	for i := 1; i <= levels; i++ {
		levelFactor := 1 + float64(i-1)*levelStep
		size := amount / float64(i)
		bids = append(bids, Level{
			Price: close * (1 - bidSpread*levelFactor),
			Size:  size * skew.BidSizeFactor(),
		})
		asks = append(asks, Level{
			Price: close * (1 + askSpread*levelFactor),
			Size:  size * skew.AskSizeFactor(),
		})
	}
	return bids, asks
}
