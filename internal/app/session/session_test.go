package session

import (
	"testing"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBalances struct {
	amounts map[string]int
}

func (s *stubBalances) LoadOrInit(tableNumber string) (int, error) {
	return s.amounts[tableNumber], nil
}

func newTestManager(amounts map[string]int) *Manager {
	if amounts == nil {
		amounts = map[string]int{}
	}
	return NewManager(&stubBalances{amounts: amounts}, []string{"A-1", "A-2", "B-1"})
}

func TestManager_Start_UnknownTable(t *testing.T) {
	m := newTestManager(nil)

	sess, err := m.Start("Z-9")
	assert.ErrorIs(t, err, ErrUnknownTable)
	assert.Nil(t, sess)
}

func TestManager_Start_FreshTableStartsAtZero(t *testing.T) {
	m := newTestManager(nil)

	sess, err := m.Start("A-1")
	require.NoError(t, err)
	assert.Equal(t, 0, sess.RunningTotal())
	assert.True(t, sess.CartIsEmpty())
}

func TestManager_Start_ResumeAdoptsStoredBalance(t *testing.T) {
	balances := &stubBalances{amounts: map[string]int{"A-1": 1430}}
	m := NewManager(balances, []string{"A-1"})

	sess, err := m.Start("A-1")
	require.NoError(t, err)
	assert.Equal(t, 1430, sess.RunningTotal())

	// 画面リロード相当: 同じセッションが保存残高を再取得する
	balances.amounts["A-1"] = 2000
	resumed, err := m.Start("A-1")
	require.NoError(t, err)
	assert.Same(t, sess, resumed)
	assert.Equal(t, 2000, resumed.RunningTotal())
}

func TestManager_SessionsAreIndependentPerTable(t *testing.T) {
	m := newTestManager(map[string]int{"A-1": 500})

	a1, err := m.Start("A-1")
	require.NoError(t, err)
	a2, err := m.Start("A-2")
	require.NoError(t, err)

	a1.AddItem(model.MenuItem{ID: 1, Name: "スープ", Price: 500})
	a1.CompleteSubmit(550)

	assert.Equal(t, 1050, a1.RunningTotal())
	assert.Equal(t, 0, a2.RunningTotal())
	assert.True(t, a2.CartIsEmpty())
}

func TestTableSession_SubmitGuard(t *testing.T) {
	m := newTestManager(nil)
	sess, err := m.Start("A-1")
	require.NoError(t, err)

	require.NoError(t, sess.BeginSubmit())
	assert.ErrorIs(t, sess.BeginSubmit(), ErrSubmitInFlight)

	sess.EndSubmit()
	assert.NoError(t, sess.BeginSubmit())
}

func TestTableSession_CompleteSubmit(t *testing.T) {
	m := newTestManager(nil)
	sess, err := m.Start("A-1")
	require.NoError(t, err)

	sess.AddItem(model.MenuItem{ID: 1, Name: "スープ", Price: 500})
	sess.CompleteSubmit(1430)

	assert.Equal(t, 1430, sess.RunningTotal())
	assert.True(t, sess.CartIsEmpty())
}

func TestTableSession_CompleteCheckout(t *testing.T) {
	m := newTestManager(map[string]int{"A-1": 1430})
	sess, err := m.Start("A-1")
	require.NoError(t, err)

	sess.AddItem(model.MenuItem{ID: 2, Name: "パン", Price: 300})
	sess.CompleteCheckout()

	assert.Equal(t, 0, sess.RunningTotal())
	assert.True(t, sess.CartIsEmpty())
}
