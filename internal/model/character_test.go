package model_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpserver-go/internal/dependencies/mocks"
	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/services/inventory"
)

type moneyRecorder struct {
	writes map[model.CharacterID]int
	err    error
}

func (m *moneyRecorder) UpdateCharacterMoney(_ context.Context, id model.CharacterID, money int) error {
	if m.err != nil {
		return m.err
	}
	m.writes[id] = money
	return nil
}

type CharacterSuite struct {
	suite.Suite
	money     *moneyRecorder
	actor     *mocks.MockActor
	character *model.Character
	ctx       context.Context
}

func TestCharacterSuite(t *testing.T) {
	suite.Run(t, new(CharacterSuite))
}

func (s *CharacterSuite) SetupTest() {
	s.money = &moneyRecorder{writes: make(map[model.CharacterID]int)}
	s.actor = mocks.NewMockActor("actor-1", "jane_social")
	s.character = model.NewCharacter(model.CharacterRecord{
		ID:           4,
		AccountID:    1,
		FirstName:    "Jane",
		LastName:     "Doe",
		Model:        "a_f_y_business_01",
		Money:        100,
		JobID:        model.NoJob,
		PhoneNumber:  "5551234",
		SpawnHouseID: model.NoHouse,
	}, model.GenderFemale, inventory.NewBag(), s.money, nil)
	s.character.Bind(s.actor)
	s.ctx = context.Background()
}

func (s *CharacterSuite) TestIdentity() {
	s.Equal("Jane Doe", s.character.FullName())
	s.Equal(model.GenderFemale, s.character.Gender())
	s.Equal("5551234", s.character.Phone().Number())
}

func (s *CharacterSuite) TestSetMoneyPersistsAndNotifies() {
	err := s.character.SetMoney(s.ctx, 500, true)
	s.Require().NoError(err)

	s.Equal(500, s.character.Money())
	s.Equal(500, s.money.writes[4])

	ev := s.actor.LastEvent()
	s.Equal(model.EventUpdateMoney, ev.Name)
	s.Equal([]any{"500"}, ev.Args)
}

func (s *CharacterSuite) TestSetMoneyWithoutPersist() {
	err := s.character.SetMoney(s.ctx, 250, false)
	s.Require().NoError(err)

	s.Equal(250, s.character.Money())
	s.Empty(s.money.writes)
	s.Len(s.actor.EventsNamed(model.EventUpdateMoney), 1, "still re-broadcast")
}

func (s *CharacterSuite) TestSetMoneyReturnsStoreError() {
	s.money.err = errors.New("store down")

	err := s.character.SetMoney(s.ctx, 10, true)
	s.Error(err)
	s.Equal(10, s.character.Money())
}

func (s *CharacterSuite) TestSetJobStaysInMemory() {
	s.character.SetJob(3)
	s.Equal(model.JobID(3), s.character.JobID())
	s.Empty(s.money.writes)
}

func (s *CharacterSuite) TestEqualityByID() {
	other := model.NewCharacter(model.CharacterRecord{ID: 4, FirstName: "Someone"}, model.GenderMale, inventory.NewBag(), s.money, nil)
	different := model.NewCharacter(model.CharacterRecord{ID: 5, FirstName: "Jane", LastName: "Doe"}, model.GenderMale, inventory.NewBag(), s.money, nil)

	s.True(s.character.Equal(other))
	s.False(s.character.Equal(different))
	s.False(s.character.Equal(nil))
}

func (s *CharacterSuite) TestStatusEffects() {
	s.False(s.character.HasStatusEffect(model.StatusHandcuffed))

	s.character.AddStatusEffect(model.StatusHandcuffed)
	s.True(s.character.HasStatusEffect(model.StatusHandcuffed))

	s.character.AddStatusEffect(model.StatusHandcuffed)
	s.character.RemoveStatusEffect(model.StatusHandcuffed)
	s.False(s.character.HasStatusEffect(model.StatusHandcuffed), "set membership, not a counter")
}

func (s *CharacterSuite) TestIsAvailable() {
	s.True(s.character.IsAvailable())

	busy := []model.ActorFlags{
		{Aiming: true},
		{InFreefall: true},
		{InCover: true},
		{Parachuting: true},
		{Reloading: true},
		{Shooting: true},
		{Dead: true},
	}
	for _, flags := range busy {
		s.actor.FlagsValue = flags
		s.False(s.character.IsAvailable(), "%+v", flags)
	}

	s.character.Unbind()
	s.actor.FlagsValue = model.ActorFlags{}
	s.False(s.character.IsAvailable(), "unbound characters cannot act")
}

func (s *CharacterSuite) TestInventoryNotifications() {
	s.character.AddItem(model.Item{ID: 9, Name: "Phone", Description: "A phone", Count: 1})
	s.character.AddItem(model.Item{ID: 9, Name: "Phone", Description: "A phone", Count: 2})

	s.Equal(3, s.character.ItemCount(9))
	added := s.actor.EventsNamed(model.EventAddItemToInventory)
	s.Require().Len(added, 2)
	s.Equal([]any{9, "Phone", 2, "A phone"}, added[1].Args)

	s.True(s.character.RemoveItem(9, 2))
	s.False(s.character.RemoveItem(9, 5))
	removed := s.actor.EventsNamed(model.EventRemoveItemFromInventory)
	s.Require().Len(removed, 1)
	s.Equal([]any{9, 2}, removed[0].Args)
	s.Len(s.character.Items(), 1)
}

func (s *CharacterSuite) TestUnboundOutputIsNoop() {
	s.character.Unbind()

	s.NotPanics(func() {
		s.character.SendNotification("hello")
		s.character.TriggerEvent("EVENT_X")
		s.character.PlayAnimation(0, "dict", "anim")
		s.character.StopAnimation()
	})
	s.Empty(s.actor.Notifications)
	s.Equal(model.Vector3{}, s.character.Position())
}

func (s *CharacterSuite) TestVehicle() {
	s.False(s.character.IsInVehicle())
	s.Equal(-1, s.character.VehicleClass())

	s.actor.VehicleValue = model.VehicleState{InVehicle: true, Seat: model.DriverSeat, Class: 7}
	s.True(s.character.IsInVehicle())
	s.True(s.character.IsDriver())
	s.Equal(7, s.character.VehicleClass())
}

func (s *CharacterSuite) TestFactionRankText() {
	s.character.UpdateFactionRankText("Officer", 0, 0, 255)

	ev := s.actor.LastEvent()
	s.Equal(model.EventUpdateJob, ev.Name)
	s.Equal([]any{"Officer", 0, 0, 255}, ev.Args)
}
