package session

import (
	"sync"

	"github.com/yorkie01/restaurant-order-system/pkg/logger"
)

// TableBalances セッション開始時の残高読み込みに使う永続層の窓口
type TableBalances interface {
	// LoadOrInit returns the stored cumulative amount for the table,
	// creating a zero row when none exists yet.
	LoadOrInit(tableNumber string) (int, error)
}

// Manager テーブル番号 → セッションの管理
// 1テーブルにつき同時に1セッションのみ保持する。
type Manager struct {
	balances    TableBalances
	validTables map[string]bool

	mu       sync.Mutex
	sessions map[string]*TableSession
}

func NewManager(balances TableBalances, tables []string) *Manager {
	valid := make(map[string]bool, len(tables))
	for _, t := range tables {
		valid[t] = true
	}
	return &Manager{
		balances:    balances,
		validTables: valid,
		sessions:    make(map[string]*TableSession),
	}
}

// Start returns the session for the given table, creating it if needed.
// The table's stored running total is always re-read so that a customer
// resuming a session (page reload) adopts the unsettled balance instead of
// starting from zero.
func (m *Manager) Start(tableNumber string) (*TableSession, error) {
	if !m.validTables[tableNumber] {
		logger.Warn("Session start rejected: unknown table", map[string]interface{}{
			"table_id": tableNumber,
		})
		return nil, ErrUnknownTable
	}

	amount, err := m.balances.LoadOrInit(tableNumber)
	if err != nil {
		logger.Error("Failed to load table balance for session", err, map[string]interface{}{
			"table_id": tableNumber,
		})
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[tableNumber]
	if !ok {
		sess = newTableSession(tableNumber, amount)
		m.sessions[tableNumber] = sess
		logger.Info("Table session started", map[string]interface{}{
			"table_id":      tableNumber,
			"running_total": amount,
		})
		return sess, nil
	}

	sess.setRunningTotal(amount)
	logger.Info("Table session resumed", map[string]interface{}{
		"table_id":      tableNumber,
		"running_total": amount,
	})
	return sess, nil
}

// Get returns the active session for a table, or nil when none was started.
func (m *Manager) Get(tableNumber string) *TableSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[tableNumber]
}
