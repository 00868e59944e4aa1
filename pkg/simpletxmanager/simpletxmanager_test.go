package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDriver драйвер-заглушка: первые commitFailures коммитов завершаются
// ошибкой сериализации 40001, как при конфликте сериализуемых транзакций.
type stubDriver struct {
	mu             sync.Mutex
	commitFailures int
	commits        int
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return &stubConn{d: d}, nil }

func (d *stubDriver) commit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commits++
	if d.commits <= d.commitFailures {
		return &pq.Error{Code: "40001"}
	}
	return nil
}

func (d *stubDriver) commitCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.commits
}

type stubConnector struct {
	driver *stubDriver
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return &stubConn{d: c.driver}, nil
}

func (c stubConnector) Driver() driver.Driver { return c.driver }

type stubConn struct{ d *stubDriver }

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Begin() (driver.Tx, error)           { return &stubTx{d: c.d}, nil }

func (c *stubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return &stubTx{d: c.d}, nil
}

type stubTx struct{ d *stubDriver }

func (t *stubTx) Commit() error   { return t.d.commit() }
func (t *stubTx) Rollback() error { return nil }

func newStubDB(commitFailures int) (*sql.DB, *stubDriver) {
	d := &stubDriver{commitFailures: commitFailures}
	return sql.OpenDB(stubConnector{driver: d}), d
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	// Первые два коммита проигрывают конфликт сериализации,
	// третий повтор проходит - вызывающий код ошибки не видит
	db, d := newStubDB(2)
	defer db.Close()

	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, d.commitCount())
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	db, _ := newStubDB(100)
	defer db.Close()

	m := NewTransactionManager(db)

	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, attempts)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pgSerializationFailure, string(pqErr.Code))
}

func TestDoSerializable_DoesNotRetryFnError(t *testing.T) {
	db, d := newStubDB(0)
	defer db.Close()

	m := NewTransactionManager(db)

	sentinel := errors.New("business rule violated")
	attempts := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, attempts)
	// Транзакция откатилась, до коммита дело не дошло
	assert.Equal(t, 0, d.commitCount())
}

func TestDo_DoesNotRetryCommitError(t *testing.T) {
	db, d := newStubDB(100)
	defer db.Close()

	m := NewTransactionManager(db)

	attempts := 0
	err := m.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, d.commitCount())
}
