package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/storage/query"
	"github.com/mcoot/rpserver-go/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	dsn   string
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.dsn = filepath.Join(s.T().TempDir(), "rp.db")
	store, err := Open(s.ctx, Config{Driver: DriverSQLite, DSN: s.dsn}, testutil.NopLogger())
	s.Require().NoError(err)
	s.store = store
}

func (s *StoreSuite) TearDownTest() {
	_ = s.store.Close()
}

func (s *StoreSuite) seedCharacter(id model.CharacterID, account model.AccountID, first, last, number string) {
	err := s.store.InsertCharacter(s.ctx, model.CharacterRecord{
		ID:           id,
		AccountID:    account,
		FirstName:    first,
		LastName:     last,
		FactionID:    model.FactionCivilian,
		Model:        "a_m_y_business_01",
		Money:        1000,
		JobID:        model.NoJob,
		PhoneNumber:  number,
		SpawnHouseID: model.NoHouse,
	})
	s.Require().NoError(err)
}

func (s *StoreSuite) TestOpenIsIdempotent() {
	s.Require().NoError(s.store.Close())

	store, err := Open(s.ctx, Config{Driver: DriverSQLite, DSN: s.dsn}, testutil.NopLogger())
	s.Require().NoError(err)
	s.store = store

	genders, err := s.store.LoadModelGenders(s.ctx)
	s.Require().NoError(err)
	s.Len(genders, 8)
}

func (s *StoreSuite) TestOpenUnknownDriver() {
	_, err := Open(s.ctx, Config{Driver: "oracle", DSN: "x"}, testutil.NopLogger())
	s.Error(err)
}

func (s *StoreSuite) TestAccounts() {
	_, ok, err := s.store.MaxAccountID(s.ctx)
	s.Require().NoError(err)
	s.False(ok)

	exists, err := s.store.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.store.InsertAccount(s.ctx, &model.Account{ID: 0, Name: "alice", PasswordHash: "h", AdminLevel: 2}))
	s.Require().NoError(s.store.InsertAccount(s.ctx, &model.Account{ID: 1, Name: "bob", PasswordHash: "h2"}))

	exists, err = s.store.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	account, err := s.store.GetAccountByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.AccountID(0), account.ID)
	s.Equal("h", account.PasswordHash)
	s.Equal(2, account.AdminLevel)

	maxID, ok, err := s.store.MaxAccountID(s.ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.AccountID(1), maxID)

	_, err = s.store.GetAccountByName(s.ctx, "carol")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StoreSuite) TestDuplicateAccountNameIsQueryError() {
	s.Require().NoError(s.store.InsertAccount(s.ctx, &model.Account{ID: 0, Name: "alice", PasswordHash: "h"}))
	err := s.store.InsertAccount(s.ctx, &model.Account{ID: 1, Name: "alice", PasswordHash: "h"})
	s.ErrorIs(err, query.ErrQuery)
}

func (s *StoreSuite) TestCharacters() {
	s.Require().NoError(s.store.InsertAccount(s.ctx, &model.Account{ID: 0, Name: "alice", PasswordHash: "h"}))
	s.seedCharacter(0, 0, "Jane", "Doe", "1234567")
	s.seedCharacter(1, 0, "John", "Doe", "7654321")

	rec, err := s.store.GetCharacter(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("John Doe", rec.FullName())
	s.Equal(model.NoJob, rec.JobID)
	s.Equal(model.NoHouse, rec.SpawnHouseID)

	recs, err := s.store.LoadCharactersForAccount(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal("Jane", recs[0].FirstName)

	n, err := s.store.CountCharactersForAccount(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(2, n)

	exists, err := s.store.CharacterExistsWithName(s.ctx, "Jane", "Doe")
	s.Require().NoError(err)
	s.True(exists)
	exists, err = s.store.CharacterExistsWithName(s.ctx, "Jane", "Roe")
	s.Require().NoError(err)
	s.False(exists)

	exists, err = s.store.CharacterExistsWithPhoneNumber(s.ctx, "7654321")
	s.Require().NoError(err)
	s.True(exists)

	numbers, err := s.store.PhoneNumbersInUse(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"1234567", "7654321"}, numbers)

	maxID, ok, err := s.store.MaxCharacterID(s.ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.CharacterID(1), maxID)

	_, err = s.store.GetCharacter(s.ctx, 9)
	s.ErrorIs(err, model.ErrCharacterNotFound)
}

func (s *StoreSuite) TestCharacterUpdates() {
	s.Require().NoError(s.store.InsertAccount(s.ctx, &model.Account{ID: 0, Name: "alice", PasswordHash: "h"}))
	s.seedCharacter(0, 0, "Jane", "Doe", "1234567")

	s.Require().NoError(s.store.UpdateCharacterMoney(s.ctx, 0, 500))
	money, err := s.store.GetCharacterMoney(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(500, money)

	s.Require().NoError(s.store.UpdateCharacterJob(s.ctx, 0, 3))
	s.Require().NoError(s.store.UpdateCharacterSpawnHouse(s.ctx, 0, 12))
	rec, err := s.store.GetCharacter(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(model.JobID(3), rec.JobID)
	s.Equal(model.HouseID(12), rec.SpawnHouseID)

	s.ErrorIs(s.store.UpdateCharacterMoney(s.ctx, 9, 1), model.ErrCharacterNotFound)
	_, err = s.store.GetCharacterMoney(s.ctx, 9)
	s.ErrorIs(err, model.ErrCharacterNotFound)
}

func (s *StoreSuite) TestTextMessages() {
	_, ok, err := s.store.MaxTextMessageID(s.ctx)
	s.Require().NoError(err)
	s.False(ok)

	at := time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	s.Require().NoError(s.store.InsertTextMessage(s.ctx, model.TextMessage{ID: 0, SenderNumber: "1111111", ReceiverNumber: "2222222", Time: at, Body: "hi"}))
	s.Require().NoError(s.store.InsertTextMessage(s.ctx, model.TextMessage{ID: 1, SenderNumber: "3333333", ReceiverNumber: "2222222", Time: at, Body: "yo"}))
	s.Require().NoError(s.store.InsertTextMessage(s.ctx, model.TextMessage{ID: 2, SenderNumber: "2222222", ReceiverNumber: "1111111", Time: at, Body: "back"}))

	msgs, err := s.store.LoadTextMessagesForNumber(s.ctx, "2222222")
	s.Require().NoError(err)
	s.Require().Len(msgs, 2)
	s.Equal("hi", msgs[0].Body)
	s.True(at.Equal(msgs[0].Time))

	s.Require().NoError(s.store.DeleteTextMessage(s.ctx, 0))
	msgs, err = s.store.LoadTextMessagesForNumber(s.ctx, "2222222")
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal(model.TextMessageID(1), msgs[0].ID)

	maxID, ok, err := s.store.MaxTextMessageID(s.ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(model.TextMessageID(2), maxID)
}

func (s *StoreSuite) TestContacts() {
	s.Require().NoError(s.store.InsertAccount(s.ctx, &model.Account{ID: 0, Name: "alice", PasswordHash: "h"}))
	s.seedCharacter(0, 0, "Jane", "Doe", "1234567")

	s.Require().NoError(s.store.InsertContact(s.ctx, 0, model.Contact{Name: "Mum", Number: "5555555"}))
	s.Require().NoError(s.store.InsertContact(s.ctx, 0, model.Contact{Name: "Bob", Number: "6666666"}))

	contacts, err := s.store.LoadContactsForCharacter(s.ctx, 0)
	s.Require().NoError(err)
	s.ElementsMatch([]model.Contact{{Name: "Mum", Number: "5555555"}, {Name: "Bob", Number: "6666666"}}, contacts)

	err = s.store.InsertContact(s.ctx, 0, model.Contact{Name: "Again", Number: "5555555"})
	s.ErrorIs(err, query.ErrQuery)

	s.Require().NoError(s.store.DeleteContact(s.ctx, 0, "5555555"))
	contacts, err = s.store.LoadContactsForCharacter(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal([]model.Contact{{Name: "Bob", Number: "6666666"}}, contacts)
}

func (s *StoreSuite) TestModelGenders() {
	genders, err := s.store.LoadModelGenders(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.GenderMale, genders["a_m_y_business_01"])
	s.Equal(model.GenderFemale, genders["a_f_y_tourist_01"])
}
