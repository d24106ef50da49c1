// Package sqlstore implements storage.Storage on a relational database.
// Every statement goes through the query package.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/storage"
	"github.com/mcoot/rpserver-go/internal/storage/query"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Driver names accepted by Open
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database connection settings
type Config struct {
	Driver string
	DSN    string

	MaxOpenConns int
	MaxIdleConns int
}

// DefaultConfig returns a file-backed SQLite configuration
func DefaultConfig() Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          "file:rpserver.db?_pragma=busy_timeout(5000)",
		MaxOpenConns: 10,
		MaxIdleConns: 2,
	}
}

// Store is a storage.Storage backed by database/sql
type Store struct {
	db     *sql.DB
	q      *query.Executor
	logger *slog.Logger
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// Open connects to the database, verifies the connection and applies
// pending migrations
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	dialect, err := query.DialectForDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	if dialect == query.DialectSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	s := NewWithDB(db, dialect, logger)
	if err := applyMigrations(ctx, db, dialect, migrationFS, "migrations", s.logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing database without running migrations
func NewWithDB(db *sql.DB, dialect query.Dialect, logger *slog.Logger) *Store {
	logger = logger.With(slog.String("component", "sqlstore"))
	return &Store{
		db:     db,
		q:      query.NewExecutor(db, dialect, logger),
		logger: logger,
	}
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Account operations

func (s *Store) AccountExists(ctx context.Context, name string) (bool, error) {
	return s.exists(ctx, "SELECT COUNT(*) FROM accounts WHERE name=@name", "name", name)
}

func (s *Store) GetAccountByName(ctx context.Context, name string) (*model.Account, error) {
	var account *model.Account
	err := s.q.Read("SELECT * FROM accounts WHERE name=@name", func(r *query.Row) error {
		account = &model.Account{
			ID:           model.AccountID(r.Int64(0)),
			Name:         r.String(1),
			PasswordHash: r.String(2),
			AdminLevel:   r.Int(3),
		}
		return nil
	}).Bind("name", name).Execute(ctx)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, model.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) InsertAccount(ctx context.Context, account *model.Account) error {
	return s.q.Insert("INSERT INTO accounts (id, name, password_hash, admin_level) VALUES (@id, @name, @password_hash, @admin_level)").
		Bind("id", int64(account.ID)).
		Bind("name", account.Name).
		Bind("password_hash", account.PasswordHash).
		Bind("admin_level", account.AdminLevel).
		Execute(ctx)
}

func (s *Store) MaxAccountID(ctx context.Context) (model.AccountID, bool, error) {
	id, ok, err := s.maxID(ctx, "SELECT MAX(id) FROM accounts")
	return model.AccountID(id), ok, err
}

// Character operations

func scanCharacter(r *query.Row) (model.CharacterRecord, error) {
	return model.CharacterRecord{
		ID:           model.CharacterID(r.Int64(0)),
		AccountID:    model.AccountID(r.Int64(1)),
		FirstName:    r.String(2),
		LastName:     r.String(3),
		FactionID:    model.FactionID(r.Int(4)),
		Model:        r.String(5),
		Money:        r.Int(6),
		JobID:        model.JobID(r.Int(7)),
		PhoneNumber:  r.String(8),
		SpawnHouseID: model.HouseID(r.Int(9)),
	}, nil
}

func (s *Store) GetCharacter(ctx context.Context, id model.CharacterID) (*model.CharacterRecord, error) {
	q := s.q.Read("SELECT * FROM characters WHERE id=@id", nil).Bind("id", int64(id))
	for rec, err := range query.Rows(ctx, q, scanCharacter) {
		if err != nil {
			return nil, err
		}
		return &rec, nil
	}
	return nil, model.ErrCharacterNotFound
}

func (s *Store) LoadCharactersForAccount(ctx context.Context, accountID model.AccountID) ([]model.CharacterRecord, error) {
	q := s.q.Read("SELECT * FROM characters WHERE player_id=@player_id ORDER BY id", nil).
		Bind("player_id", int64(accountID))
	return query.Collect(query.Rows(ctx, q, scanCharacter))
}

func (s *Store) CountCharactersForAccount(ctx context.Context, accountID model.AccountID) (int, error) {
	n, err := s.count(ctx, "SELECT COUNT(*) FROM characters WHERE player_id=@player_id", "player_id", int64(accountID))
	return int(n), err
}

func (s *Store) CharacterExistsWithName(ctx context.Context, firstName, lastName string) (bool, error) {
	var n int64
	err := s.q.Read("SELECT COUNT(*) FROM characters WHERE first_name=@first_name AND last_name=@last_name", func(r *query.Row) error {
		n = r.Int64(0)
		return nil
	}).Bind("first_name", firstName).Bind("last_name", lastName).Execute(ctx)
	return n > 0, err
}

func (s *Store) CharacterExistsWithPhoneNumber(ctx context.Context, number string) (bool, error) {
	return s.exists(ctx, "SELECT COUNT(*) FROM characters WHERE phone_number=@number", "number", number)
}

func (s *Store) InsertCharacter(ctx context.Context, c model.CharacterRecord) error {
	return s.q.Insert(`INSERT INTO characters
(id, player_id, first_name, last_name, faction_id, model, money, job_id, phone_number, spawn_house_id)
VALUES (@id, @player_id, @first_name, @last_name, @faction_id, @model, @money, @job_id, @phone_number, @spawn_house_id)`).
		Bind("id", int64(c.ID)).
		Bind("player_id", int64(c.AccountID)).
		Bind("first_name", c.FirstName).
		Bind("last_name", c.LastName).
		Bind("faction_id", int(c.FactionID)).
		Bind("model", c.Model).
		Bind("money", c.Money).
		Bind("job_id", int(c.JobID)).
		Bind("phone_number", c.PhoneNumber).
		Bind("spawn_house_id", int(c.SpawnHouseID)).
		Execute(ctx)
}

func (s *Store) GetCharacterMoney(ctx context.Context, id model.CharacterID) (int, error) {
	money, found := 0, false
	err := s.q.Read("SELECT money FROM characters WHERE id=@id", func(r *query.Row) error {
		money, found = r.Int(0), true
		return nil
	}).Bind("id", int64(id)).Execute(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, model.ErrCharacterNotFound
	}
	return money, nil
}

func (s *Store) UpdateCharacterMoney(ctx context.Context, id model.CharacterID, money int) error {
	return s.updateCharacter(ctx, "UPDATE characters SET money=@money WHERE id=@id", id, "money", money)
}

func (s *Store) UpdateCharacterJob(ctx context.Context, id model.CharacterID, job model.JobID) error {
	return s.updateCharacter(ctx, "UPDATE characters SET job_id=@job_id WHERE id=@id", id, "job_id", int(job))
}

func (s *Store) UpdateCharacterSpawnHouse(ctx context.Context, id model.CharacterID, house model.HouseID) error {
	return s.updateCharacter(ctx, "UPDATE characters SET spawn_house_id=@house_id WHERE id=@id", id, "house_id", int(house))
}

func (s *Store) updateCharacter(ctx context.Context, statement string, id model.CharacterID, name string, value any) error {
	q := s.q.Update(statement).Bind(name, value).Bind("id", int64(id))
	if err := q.Execute(ctx); err != nil {
		return err
	}
	if q.RowsAffected() == 0 {
		return model.ErrCharacterNotFound
	}
	return nil
}

func (s *Store) MaxCharacterID(ctx context.Context) (model.CharacterID, bool, error) {
	id, ok, err := s.maxID(ctx, "SELECT MAX(id) FROM characters")
	return model.CharacterID(id), ok, err
}

func (s *Store) PhoneNumbersInUse(ctx context.Context) ([]string, error) {
	q := s.q.Read("SELECT phone_number FROM characters", nil)
	return query.Collect(query.Rows(ctx, q, func(r *query.Row) (string, error) {
		return r.String(0), nil
	}))
}

// Text message operations

func scanTextMessage(r *query.Row) (model.TextMessage, error) {
	return model.TextMessage{
		ID:             model.TextMessageID(r.Int64(0)),
		SenderNumber:   r.String(1),
		ReceiverNumber: r.String(2),
		Time:           r.Time(3),
		Body:           r.String(4),
	}, nil
}

func (s *Store) LoadTextMessagesForNumber(ctx context.Context, number string) ([]model.TextMessage, error) {
	q := s.q.Read("SELECT * FROM text_messages WHERE receiver_number=@number ORDER BY id", nil).
		Bind("number", number)
	return query.Collect(query.Rows(ctx, q, scanTextMessage))
}

func (s *Store) InsertTextMessage(ctx context.Context, msg model.TextMessage) error {
	return s.q.Insert("INSERT INTO text_messages (id, sender_number, receiver_number, time, message) VALUES (@id, @sender, @receiver, @time, @message)").
		Bind("id", int64(msg.ID)).
		Bind("sender", msg.SenderNumber).
		Bind("receiver", msg.ReceiverNumber).
		Bind("time", msg.Time.UTC().Format(time.RFC3339Nano)).
		Bind("message", msg.Body).
		Execute(ctx)
}

func (s *Store) DeleteTextMessage(ctx context.Context, id model.TextMessageID) error {
	return s.q.Update("DELETE FROM text_messages WHERE id=@id").Bind("id", int64(id)).Execute(ctx)
}

func (s *Store) MaxTextMessageID(ctx context.Context) (model.TextMessageID, bool, error) {
	id, ok, err := s.maxID(ctx, "SELECT MAX(id) FROM text_messages")
	return model.TextMessageID(id), ok, err
}

// Contact operations

func (s *Store) LoadContactsForCharacter(ctx context.Context, owner model.CharacterID) ([]model.Contact, error) {
	var contacts []model.Contact
	err := s.q.Read("SELECT * FROM phone_contacts WHERE owner_id=@owner", func(r *query.Row) error {
		contacts = append(contacts, model.Contact{Name: r.String(1), Number: r.String(2)})
		return nil
	}).Bind("owner", int64(owner)).Execute(ctx)
	return contacts, err
}

func (s *Store) InsertContact(ctx context.Context, owner model.CharacterID, contact model.Contact) error {
	return s.q.Insert("INSERT INTO phone_contacts (owner_id, name, number) VALUES (@owner, @name, @number)").
		Bind("owner", int64(owner)).
		Bind("name", contact.Name).
		Bind("number", contact.Number).
		Execute(ctx)
}

func (s *Store) DeleteContact(ctx context.Context, owner model.CharacterID, number string) error {
	return s.q.Update("DELETE FROM phone_contacts WHERE owner_id=@owner AND number=@number").
		Bind("owner", int64(owner)).
		Bind("number", number).
		Execute(ctx)
}

// Appearance models

func (s *Store) LoadModelGenders(ctx context.Context) (map[string]model.Gender, error) {
	genders := make(map[string]model.Gender)
	err := s.q.Read("SELECT * FROM model_genders", func(r *query.Row) error {
		genders[r.String(0)] = model.Gender(r.Int(1))
		return nil
	}).Execute(ctx)
	return genders, err
}

// helpers

func (s *Store) count(ctx context.Context, statement, name string, value any) (int64, error) {
	var n int64
	err := s.q.Read(statement, func(r *query.Row) error {
		n = r.Int64(0)
		return nil
	}).Bind(name, value).Execute(ctx)
	return n, err
}

func (s *Store) exists(ctx context.Context, statement, name string, value any) (bool, error) {
	n, err := s.count(ctx, statement, name, value)
	return n > 0, err
}

func (s *Store) maxID(ctx context.Context, statement string) (int64, bool, error) {
	var (
		id int64
		ok bool
	)
	err := s.q.Read(statement, func(r *query.Row) error {
		if !r.IsNull(0) {
			id, ok = r.Int64(0), true
		}
		return nil
	}).Execute(ctx)
	return id, ok, err
}
