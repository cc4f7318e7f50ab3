package order

import (
	"fmt"
	"sort"
	"sync"
)

// Book 记录订单和状态，支持查询。
type Book struct {
	mu     sync.RWMutex
	seq    int
	orders map[string]Order
}

func NewBook() *Book {
	return &Book{orders: make(map[string]Order)}
}

// Add 登记一笔新订单并分配 ID，状态置为 NEW。
func (b *Book) Add(o Order) Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	o.ID = fmt.Sprintf("paper-%d", b.seq)
	o.Status = StatusNew
	b.orders[o.ID] = o
	return o
}

func (b *Book) Get(id string) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[id]
	return o, ok
}

// Transition 修改订单状态，非法转换返回错误。
func (b *Book) Transition(id string, to Status, reason string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	if err := ValidateTransition(o.Status, to); err != nil {
		return fmt.Errorf("order %s: %w", id, err)
	}
	o.Status = to
	if reason != "" {
		o.Reason = reason
	}
	b.orders[id] = o
	return nil
}

// Open 返回全部 NEW 状态的订单，按提交顺序排列。
func (b *Book) Open() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	res := make([]Order, 0)
	for _, o := range b.orders {
		if o.Status == StatusNew {
			res = append(res, o)
		}
	}
	sortBySeq(res)
	return res
}

// ExpireOpen 将所有未成交订单置为过期，返回过期数量。
func (b *Book) ExpireOpen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, o := range b.orders {
		if o.Status == StatusNew {
			o.Status = StatusExpired
			b.orders[id] = o
			n++
		}
	}
	return n
}

// Prune 删除终态订单，避免长回测里订单簿无限增长。
func (b *Book) Prune() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, o := range b.orders {
		if o.Status.IsFinal() {
			delete(b.orders, id)
		}
	}
}

// List 返回全部订单（拷贝）。
func (b *Book) List() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	res := make([]Order, 0, len(b.orders))
	for _, o := range b.orders {
		res = append(res, o)
	}
	sortBySeq(res)
	return res
}

func sortBySeq(orders []Order) {
	sort.Slice(orders, func(i, j int) bool {
		return seqOf(orders[i].ID) < seqOf(orders[j].ID)
	})
}

func seqOf(id string) int {
	var n int
	_, _ = fmt.Sscanf(id, "paper-%d", &n)
	return n
}
