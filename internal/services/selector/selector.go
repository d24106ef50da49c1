// Package selector owns character creation and selection: the allowed
// appearance models, phone number allocation, the character id sequence and
// each logged-in account's selection list.
package selector

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/mcoot/rpserver-go/internal/dependencies/random"
	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/storage"
)

// Name length bounds, in characters
const (
	MinFirstNameLength = 3
	MaxFirstNameLength = 8
	MinLastNameLength  = 2
	MaxLastNameLength  = 10
)

// Phone numbers are drawn from [phoneNumberBase, phoneNumberBase+phoneNumberSpan)
const (
	phoneNumberBase     = 1000000
	phoneNumberSpan     = 9000000
	maxPhoneNumberRolls = 1000
)

// Loader turns a stored record into a fully hydrated character
type Loader interface {
	LoadCharacter(ctx context.Context, rec model.CharacterRecord) (*model.Character, error)
}

// Config holds defaults for new characters
type Config struct {
	StartMoney int
}

// Selector must only be used from the session loop
type Selector struct {
	storage storage.Storage
	random  random.Random
	loader  Loader
	logger  *slog.Logger
	cfg     Config

	genders map[string]model.Gender
	numbers map[string]struct{}
	nextID  model.CharacterID
	lists   map[model.AccountID][]*model.Character
}

// New creates a selector. Init must run before use.
func New(storage storage.Storage, random random.Random, loader Loader, cfg Config, logger *slog.Logger) *Selector {
	return &Selector{
		storage: storage,
		random:  random,
		loader:  loader,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "selector")),
		genders: make(map[string]model.Gender),
		numbers: make(map[string]struct{}),
		lists:   make(map[model.AccountID][]*model.Character),
	}
}

// Init loads the allowed models, the phone numbers in use and seeds the
// character id sequence from the store
func (s *Selector) Init(ctx context.Context) error {
	genders, err := s.storage.LoadModelGenders(ctx)
	if err != nil {
		return fmt.Errorf("load model genders: %w", err)
	}
	s.genders = genders

	numbers, err := s.storage.PhoneNumbersInUse(ctx)
	if err != nil {
		return fmt.Errorf("load phone numbers: %w", err)
	}
	clear(s.numbers)
	for _, n := range numbers {
		s.numbers[n] = struct{}{}
	}

	maxID, ok, err := s.storage.MaxCharacterID(ctx)
	if err != nil {
		return fmt.Errorf("seed character id: %w", err)
	}
	s.nextID = 0
	if ok {
		s.nextID = maxID + 1
	}

	s.logger.Info("selector initialised",
		slog.Int("models", len(s.genders)),
		slog.Int("phone_numbers", len(s.numbers)),
		slog.Int64("next_character_id", int64(s.nextID)))
	return nil
}

// GenderForModel returns the model's gender, male when unknown
func (s *Selector) GenderForModel(modelName string) model.Gender {
	if g, ok := s.genders[modelName]; ok {
		return g
	}
	return model.GenderMale
}

// IsModelAllowed reports whether new characters may use the model
func (s *Selector) IsModelAllowed(modelName string) bool {
	_, ok := s.genders[modelName]
	return ok
}

// Models returns the allowed models in name order
func (s *Selector) Models() []string {
	out := make([]string, 0, len(s.genders))
	for m := range s.genders {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// NextCharacterID returns the id the next created character will get
func (s *Selector) NextCharacterID() model.CharacterID {
	return s.nextID
}

// NormalizeName puts a name in canonical form before comparison or storage
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// ValidateName checks the first and last name length bounds
func ValidateName(firstName, lastName string) error {
	if n := utf8.RuneCountInString(firstName); n < MinFirstNameLength || n > MaxFirstNameLength {
		return model.ErrFirstNameLength
	}
	if n := utf8.RuneCountInString(lastName); n < MinLastNameLength || n > MaxLastNameLength {
		return model.ErrLastNameLength
	}
	return nil
}

// AllocatePhoneNumber reserves an unused 7-digit number
func (s *Selector) AllocatePhoneNumber() (string, error) {
	for range maxPhoneNumberRolls {
		number := strconv.Itoa(s.random.Intn(phoneNumberSpan) + phoneNumberBase)
		if _, taken := s.numbers[number]; taken {
			continue
		}
		s.numbers[number] = struct{}{}
		return number, nil
	}
	return "", model.ErrPhoneNumbersExhausted
}

// Open shows the selection menu listing the given characters
func (s *Selector) Open(session *model.Session, characters []*model.Character) {
	s.lists[session.Account.ID] = characters
	s.showSelection(session)
}

func (s *Selector) showSelection(session *model.Session) {
	names := make([]string, 0, len(s.lists[session.Account.ID]))
	for _, c := range s.lists[session.Account.ID] {
		names = append(names, c.FullName())
	}
	session.Actor.TriggerEvent(model.EventOpenCharacterSelectMenu, names)
}

// OpenCreationMenu shows the creation menu with the allowed models
func (s *Selector) OpenCreationMenu(session *model.Session) {
	session.Actor.TriggerEvent(model.EventOpenCharacterCreationMenu, s.Models())
}

// Characters returns the account's selection list
func (s *Selector) Characters(account model.AccountID) []*model.Character {
	return slices.Clone(s.lists[account])
}

// Create validates and stores a new character, adds it to the account's
// selection list and reopens the selection menu. The name pair must be
// unique across all accounts.
func (s *Selector) Create(ctx context.Context, session *model.Session, firstName, lastName, modelName string) (*model.Character, error) {
	firstName, lastName = NormalizeName(firstName), NormalizeName(lastName)
	if err := ValidateName(firstName, lastName); err != nil {
		return nil, err
	}
	if !s.IsModelAllowed(modelName) {
		return nil, model.ErrModelNotAllowed
	}

	exists, err := s.storage.CharacterExistsWithName(ctx, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrCharacterNameExists
	}

	number, err := s.AllocatePhoneNumber()
	if err != nil {
		return nil, err
	}

	rec := model.CharacterRecord{
		ID:           s.nextID,
		AccountID:    session.Account.ID,
		FirstName:    firstName,
		LastName:     lastName,
		FactionID:    model.FactionCivilian,
		Model:        modelName,
		Money:        s.cfg.StartMoney,
		JobID:        model.NoJob,
		PhoneNumber:  number,
		SpawnHouseID: model.NoHouse,
	}
	if err := s.storage.InsertCharacter(ctx, rec); err != nil {
		delete(s.numbers, number)
		return nil, err
	}
	s.nextID++

	character, err := s.loader.LoadCharacter(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.lists[session.Account.ID] = append(s.lists[session.Account.ID], character)
	s.logger.Info("character created",
		slog.Int64("character_id", int64(rec.ID)),
		slog.Int64("account_id", int64(rec.AccountID)),
		slog.String("name", rec.FullName()))

	s.showSelection(session)
	return character, nil
}

// Select binds the named character from the account's list to the
// session's actor and closes the menu
func (s *Selector) Select(session *model.Session, fullName string) (*model.Character, error) {
	if session.HasCharacter() {
		return nil, model.ErrCharacterActive
	}

	fullName = NormalizeName(fullName)
	list := s.lists[session.Account.ID]
	i := slices.IndexFunc(list, func(c *model.Character) bool {
		return c.FullName() == fullName
	})
	if i < 0 {
		return nil, model.ErrCharacterNotFound
	}

	character := list[i]
	character.Bind(session.Actor)
	character.SetModel(character.Model(), character.Gender())
	session.Character = character
	delete(s.lists, session.Account.ID)

	session.Actor.TriggerEvent(model.EventCloseCharacterSelectMenu)
	character.TriggerEvent(model.EventUpdateMoney, strconv.Itoa(character.Money()))
	return character, nil
}

// Remove forgets the account's selection list
func (s *Selector) Remove(account model.AccountID) {
	delete(s.lists, account)
}
