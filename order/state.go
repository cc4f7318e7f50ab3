package order

import "fmt"

// Status represents order lifecycle.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusFilled   Status = "FILLED"
	StatusExpired  Status = "EXPIRED"
	StatusRejected Status = "REJECTED"
)

// Order 是挂在模拟撮合里的限价单。
type Order struct {
	ID       string
	Side     Side
	Price    float64
	Quantity float64
	Status   Status
	Bar      int // 下单时的 bar 序号
	Reason   string
}

// 合法状态转换：只有 NEW 可以离开，终态不可再变。
var transitions = map[Status][]Status{
	StatusNew: {StatusFilled, StatusExpired, StatusRejected},
}

// ValidateTransition 校验状态转换，相同状态视为幂等。
func ValidateTransition(from, to Status) error {
	if from == to {
		return nil
	}
	for _, s := range transitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("illegal state transition: %s -> %s", from, to)
}

// IsFinal 判断是否终态。
func (s Status) IsFinal() bool {
	return s == StatusFilled || s == StatusExpired || s == StatusRejected
}
