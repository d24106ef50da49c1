package query

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"

	"github.com/mcoot/rpserver-go/internal/testutil"
)

type QuerySuite struct {
	suite.Suite
	db   *sql.DB
	exec *Executor
	ctx  context.Context
}

func TestQuerySuite(t *testing.T) {
	suite.Run(t, new(QuerySuite))
}

func (s *QuerySuite) SetupTest() {
	db, err := sql.Open("sqlite", filepath.Join(s.T().TempDir(), "query.db"))
	s.Require().NoError(err)
	s.db = db
	s.exec = NewExecutor(db, DialectSQLite, testutil.NopLogger())
	s.ctx = context.Background()

	_, err = db.Exec(`CREATE TABLE accounts (id INTEGER PRIMARY KEY, name TEXT NOT NULL, password_hash TEXT NOT NULL, admin_level INTEGER NOT NULL DEFAULT 0)`)
	s.Require().NoError(err)
}

func (s *QuerySuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *QuerySuite) insertAccount(id int, name string) {
	err := s.exec.Insert("INSERT INTO accounts (id, name, password_hash, admin_level) VALUES (@id, @name, @hash, @admin)").
		Bind("@name", name).
		Bind("hash", "h").
		Bind("admin", 0).
		Bind("id", id).
		Execute(s.ctx)
	s.Require().NoError(err)
}

func (s *QuerySuite) TestInsertAndReadInStoreOrder() {
	s.insertAccount(2, "bob")
	s.insertAccount(1, "alice")

	var names []string
	err := s.exec.Read("SELECT * FROM accounts ORDER BY id", func(r *Row) error {
		s.Equal(4, r.Len())
		names = append(names, r.String(1))
		return nil
	}).Execute(s.ctx)

	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, names)
}

func (s *QuerySuite) TestReadWithBoundFilter() {
	s.insertAccount(1, "alice")
	s.insertAccount(2, "bob")

	var id int64
	calls := 0
	err := s.exec.Read("SELECT * FROM accounts WHERE name=@name", func(r *Row) error {
		calls++
		id = r.Int64(0)
		return nil
	}).Bind("name", "bob").Execute(s.ctx)

	s.Require().NoError(err)
	s.Equal(1, calls)
	s.Equal(int64(2), id)
}

func (s *QuerySuite) TestUpdateRowsAffected() {
	s.insertAccount(1, "alice")

	q := s.exec.Update("UPDATE accounts SET admin_level=@level WHERE id=@id").
		Bind("level", 3).
		Bind("id", 1)
	s.Require().NoError(q.Execute(s.ctx))
	s.Equal(int64(1), q.RowsAffected())

	q = s.exec.Update("UPDATE accounts SET admin_level=@level WHERE id=@id").
		Bind("level", 3).
		Bind("id", 99)
	s.Require().NoError(q.Execute(s.ctx))
	s.Equal(int64(0), q.RowsAffected())
}

func (s *QuerySuite) TestUnboundParameterIsQueryError() {
	err := s.exec.Insert("INSERT INTO accounts (id, name, password_hash) VALUES (@id, @name, @hash)").
		Bind("id", 1).
		Execute(s.ctx)

	s.Require().Error(err)
	s.ErrorIs(err, ErrQuery)
	s.ErrorIs(err, ErrUnboundParameter)

	var qe *Error
	s.Require().True(errors.As(err, &qe))
	s.Equal(KindInsert, qe.Kind)
}

func (s *QuerySuite) TestMalformedStatementIsQueryError() {
	err := s.exec.Read("SELEC nonsense", func(*Row) error { return nil }).Execute(s.ctx)
	s.ErrorIs(err, ErrQuery)

	err = s.exec.Update("UPDATE missing_table SET x=1").Execute(s.ctx)
	s.ErrorIs(err, ErrQuery)
}

func (s *QuerySuite) TestCallbackErrorAbortsRead() {
	s.insertAccount(1, "alice")
	s.insertAccount(2, "bob")
	stop := errors.New("stop")

	calls := 0
	err := s.exec.Read("SELECT * FROM accounts", func(*Row) error {
		calls++
		return stop
	}).Execute(s.ctx)

	s.ErrorIs(err, stop)
	s.Equal(1, calls)
}

func (s *QuerySuite) TestConversionErrorSurfaces() {
	s.insertAccount(1, "alice")

	err := s.exec.Read("SELECT * FROM accounts", func(r *Row) error {
		_ = r.Int64(1)
		return nil
	}).Execute(s.ctx)

	s.ErrorIs(err, ErrQuery)
}

type account struct {
	id   int64
	name string
}

func scanAccount(r *Row) (account, error) {
	return account{id: r.Int64(0), name: r.String(1)}, nil
}

func (s *QuerySuite) TestRowsIsTypedAndLazy() {
	s.insertAccount(1, "alice")
	s.insertAccount(2, "bob")
	s.insertAccount(3, "carol")

	q := s.exec.Read("SELECT * FROM accounts ORDER BY id", nil)
	var seen []account
	for a, err := range Rows(s.ctx, q, scanAccount) {
		s.Require().NoError(err)
		seen = append(seen, a)
		if len(seen) == 2 {
			break
		}
	}
	s.Equal([]account{{1, "alice"}, {2, "bob"}}, seen)

	// Breaking early released the cursor, so the database is still usable.
	s.insertAccount(4, "dave")
	all, err := Collect(Rows(s.ctx, s.exec.Read("SELECT * FROM accounts", nil), scanAccount))
	s.Require().NoError(err)
	s.Len(all, 4)
}

func (s *QuerySuite) TestRowsRejectsWrites() {
	_, err := Collect(Rows(s.ctx, s.exec.Update("DELETE FROM accounts"), scanAccount))
	s.ErrorIs(err, ErrNotRead)
}

func (s *QuerySuite) TestNullColumns() {
	_, err := s.db.Exec(`CREATE TABLE t (a INTEGER, b TEXT)`)
	s.Require().NoError(err)
	s.Require().NoError(s.exec.Insert("INSERT INTO t (a, b) VALUES (@a, @b)").Bind("a", nil).Bind("b", nil).Execute(s.ctx))

	err = s.exec.Read("SELECT a, b FROM t", func(r *Row) error {
		s.True(r.IsNull(0))
		s.Equal(int64(0), r.Int64(0))
		s.Equal("", r.String(1))
		return nil
	}).Execute(s.ctx)
	s.NoError(err)
}

func (s *QuerySuite) TestOutOfRangeColumn() {
	s.insertAccount(1, "alice")

	err := s.exec.Read("SELECT id FROM accounts", func(r *Row) error {
		_ = r.String(5)
		return nil
	}).Execute(s.ctx)
	s.ErrorIs(err, ErrQuery)
}
