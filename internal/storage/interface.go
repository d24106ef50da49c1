package storage

import (
	"context"

	"github.com/mcoot/rpserver-go/internal/model"
)

// Storage defines the durable account and character store.
//
// Max*ID methods report ok=false when the table is empty.
type Storage interface {
	// Account operations
	AccountExists(ctx context.Context, name string) (bool, error)
	GetAccountByName(ctx context.Context, name string) (*model.Account, error)
	InsertAccount(ctx context.Context, account *model.Account) error
	MaxAccountID(ctx context.Context) (id model.AccountID, ok bool, err error)

	// Character operations
	GetCharacter(ctx context.Context, id model.CharacterID) (*model.CharacterRecord, error)
	LoadCharactersForAccount(ctx context.Context, accountID model.AccountID) ([]model.CharacterRecord, error)
	CountCharactersForAccount(ctx context.Context, accountID model.AccountID) (int, error)
	CharacterExistsWithName(ctx context.Context, firstName, lastName string) (bool, error)
	CharacterExistsWithPhoneNumber(ctx context.Context, number string) (bool, error)
	InsertCharacter(ctx context.Context, character model.CharacterRecord) error
	GetCharacterMoney(ctx context.Context, id model.CharacterID) (int, error)
	UpdateCharacterMoney(ctx context.Context, id model.CharacterID, money int) error
	UpdateCharacterJob(ctx context.Context, id model.CharacterID, job model.JobID) error
	UpdateCharacterSpawnHouse(ctx context.Context, id model.CharacterID, house model.HouseID) error
	MaxCharacterID(ctx context.Context) (id model.CharacterID, ok bool, err error)
	PhoneNumbersInUse(ctx context.Context) ([]string, error)

	// Text message operations
	LoadTextMessagesForNumber(ctx context.Context, number string) ([]model.TextMessage, error)
	InsertTextMessage(ctx context.Context, msg model.TextMessage) error
	DeleteTextMessage(ctx context.Context, id model.TextMessageID) error
	MaxTextMessageID(ctx context.Context) (id model.TextMessageID, ok bool, err error)

	// Contact operations
	LoadContactsForCharacter(ctx context.Context, owner model.CharacterID) ([]model.Contact, error)
	InsertContact(ctx context.Context, owner model.CharacterID, contact model.Contact) error
	DeleteContact(ctx context.Context, owner model.CharacterID, number string) error

	// Appearance models
	LoadModelGenders(ctx context.Context) (map[string]model.Gender, error)

	Close() error
}
