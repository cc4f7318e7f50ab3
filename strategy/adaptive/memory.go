package adaptive

import "adaptive-mm/strategy"

// Experience 一条 (状态, 动作, 奖励, 下一状态) 记录。
type Experience struct {
	State     strategy.Observation    `json:"state"`
	Action    strategy.TunableFactors `json:"action"`
	Reward    float64                 `json:"reward"`
	NextState strategy.Observation    `json:"next_state"`
}

// Memory 固定容量的 FIFO，满后淘汰最旧的记录。
type Memory struct {
	buf   []Experience
	start int
	size  int
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{buf: make([]Experience, capacity)}
}

// Push 追加一条记录。
func (m *Memory) Push(e Experience) {
	if m.size < len(m.buf) {
		m.buf[(m.start+m.size)%len(m.buf)] = e
		m.size++
		return
	}
	m.buf[m.start] = e
	m.start = (m.start + 1) % len(m.buf)
}

func (m *Memory) Len() int { return m.size }

func (m *Memory) Cap() int { return len(m.buf) }

// Entries 从旧到新返回拷贝。
func (m *Memory) Entries() []Experience {
	out := make([]Experience, m.size)
	for i := 0; i < m.size; i++ {
		out[i] = m.buf[(m.start+i)%len(m.buf)]
	}
	return out
}

// Last 最新一条记录。
func (m *Memory) Last() (Experience, bool) {
	if m.size == 0 {
		return Experience{}, false
	}
	return m.buf[(m.start+m.size-1)%len(m.buf)], true
}
