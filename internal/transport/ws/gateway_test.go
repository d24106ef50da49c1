package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rpserver-go/internal/dependencies/mocks"
	"github.com/mcoot/rpserver-go/internal/model"
	presencememory "github.com/mcoot/rpserver-go/internal/presence/memory"
	"github.com/mcoot/rpserver-go/internal/services/auth"
	"github.com/mcoot/rpserver-go/internal/services/dispatch"
	"github.com/mcoot/rpserver-go/internal/services/housing"
	"github.com/mcoot/rpserver-go/internal/services/inventory"
	"github.com/mcoot/rpserver-go/internal/services/session"
	"github.com/mcoot/rpserver-go/internal/storage/sqlstore/sqltest"
	"github.com/mcoot/rpserver-go/internal/testutil"
)

// stepRandom keeps generated phone numbers distinct
type stepRandom struct{ n int }

func (r *stepRandom) Intn(n int) int {
	r.n++
	return r.n % n
}

type GatewaySuite struct {
	suite.Suite
	manager  *session.Manager
	presence *presencememory.Store
	loop     *dispatch.Loop
	gateway  *Gateway
	cancel   context.CancelFunc
	server   *httptest.Server
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	logger := testutil.NopLogger()
	store := sqltest.NewStore(s.T())
	clock := mocks.NewMockClock(time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC))
	s.presence = presencememory.New()

	s.manager = session.New(session.Deps{
		Storage:   store,
		Auth:      auth.New(store, clock, auth.Config{TokenSecret: "t", BcryptCost: bcrypt.MinCost}, logger),
		Inventory: inventory.New(logger),
		Housing:   housing.NewRegistry(),
		Presence:  s.presence,
		Clock:     clock,
		Random:    &stepRandom{},
		Logger:    logger,
	}, session.DefaultConfig())
	s.Require().NoError(s.manager.Init(context.Background()))

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	s.loop = dispatch.New(5*time.Second, logger)
	go s.loop.Run(ctx)

	s.gateway = New(s.manager, s.loop, logger)
	s.server = httptest.NewServer(s.gateway)
}

func (s *GatewaySuite) TearDownTest() {
	s.gateway.Close()
	s.server.Close()
	s.cancel()
}

func (s *GatewaySuite) dial(name string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/?name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *GatewaySuite) send(conn *websocket.Conn, cmd Command) {
	s.Require().NoError(conn.WriteJSON(cmd))
}

// await reads frames until one with the given event arrives
func (s *GatewaySuite) await(conn *websocket.Conn, event string) Frame {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		s.Require().NoError(err, "waiting for %s", event)
		var f Frame
		s.Require().NoError(json.Unmarshal(data, &f))
		if f.Event == event {
			return f
		}
	}
}

// inLoop reads manager state on the dispatch goroutine
func (s *GatewaySuite) inLoop(fn func()) {
	s.Require().NoError(s.loop.Do(context.Background(), "test", func(context.Context) error {
		fn()
		return nil
	}))
}

func (s *GatewaySuite) TestRejectsMissingName() {
	resp, err := http.Get(s.server.URL)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *GatewaySuite) TestConnectOpensAccountCreation() {
	conn := s.dial("alice")
	s.await(conn, model.EventSetLoginScreenCamera)
	s.await(conn, model.EventOpenCreateAccountMenu)
}

func (s *GatewaySuite) TestFullJourney() {
	conn := s.dial("alice")
	s.await(conn, model.EventOpenCreateAccountMenu)

	s.send(conn, Command{Command: CmdCreateAccount, Password: "secret1"})
	s.await(conn, model.EventCloseCreateAccountMenu)
	s.await(conn, model.EventOpenCharacterSelectMenu)

	s.send(conn, Command{Command: CmdCreateCharacter, FirstName: "Alice", LastName: "Smith", Model: "a_f_y_tourist_01"})
	f := s.await(conn, model.EventOpenCharacterSelectMenu)
	s.Require().Len(f.Args, 1)
	s.Equal([]any{"Alice Smith"}, f.Args[0])

	s.send(conn, Command{Command: CmdSelectCharacter, Name: "Alice Smith"})
	f = s.await(conn, FrameModel)
	s.Equal([]any{"a_f_y_tourist_01"}, f.Args)
	s.await(conn, model.EventCloseCharacterSelectMenu)

	s.Eventually(func() bool {
		online, err := s.presence.List(context.Background())
		return err == nil && len(online) == 1 && online[0].FullName == "Alice Smith"
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *GatewaySuite) TestValidationNoticeReachesClient() {
	conn := s.dial("bob")
	s.await(conn, model.EventOpenCreateAccountMenu)

	s.send(conn, Command{Command: CmdCreateAccount, Password: "abc"})
	f := s.await(conn, FrameNotification)
	s.Equal([]any{"Password has to be at least 6 characters long!"}, f.Args)
}

func (s *GatewaySuite) TestUnknownCommandKeepsConnection() {
	conn := s.dial("carol")
	s.await(conn, model.EventOpenCreateAccountMenu)

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	s.send(conn, Command{Command: "fly"})
	s.send(conn, Command{Command: CmdCreateAccount, Password: "secret1"})
	s.await(conn, model.EventCloseCreateAccountMenu)
}

func (s *GatewaySuite) TestCloseDisconnectsPlayer() {
	conn := s.dial("dave")
	s.await(conn, model.EventOpenCreateAccountMenu)
	s.send(conn, Command{Command: CmdCreateAccount, Password: "secret1"})
	s.await(conn, model.EventCloseCreateAccountMenu)

	s.Require().NoError(conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	s.Eventually(func() bool {
		var connected, sessions int
		s.inLoop(func() {
			connected = s.manager.ConnectedActors()
			sessions = len(s.manager.Sessions())
		})
		return connected == 0 && sessions == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *GatewaySuite) TestGatewayCloseDisconnectsEveryone() {
	for _, name := range []string{"erin", "frank"} {
		conn := s.dial(name)
		s.await(conn, model.EventOpenCreateAccountMenu)
	}
	s.Equal(2, s.gateway.Connections())

	s.gateway.Close()

	s.Equal(0, s.gateway.Connections())
	s.inLoop(func() {
		s.Zero(s.manager.ConnectedActors())
	})

	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/?name=late"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	_, _, err = conn.ReadMessage()
	s.True(websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func (s *GatewaySuite) TestTextBetweenConnectedPlayers() {
	alice := s.dial("alice")
	s.await(alice, model.EventOpenCreateAccountMenu)
	s.send(alice, Command{Command: CmdCreateAccount, Password: "secret1"})
	s.send(alice, Command{Command: CmdCreateCharacter, FirstName: "Alice", LastName: "Smith", Model: "a_f_y_tourist_01"})
	s.send(alice, Command{Command: CmdSelectCharacter, Name: "Alice Smith"})
	s.await(alice, model.EventCloseCharacterSelectMenu)

	bob := s.dial("bob")
	s.await(bob, model.EventOpenCreateAccountMenu)
	s.send(bob, Command{Command: CmdCreateAccount, Password: "secret1"})
	s.send(bob, Command{Command: CmdCreateCharacter, FirstName: "Bob", LastName: "Jones", Model: "a_m_y_hipster_01"})
	s.send(bob, Command{Command: CmdSelectCharacter, Name: "Bob Jones"})
	s.await(bob, model.EventCloseCharacterSelectMenu)

	var bobNumber string
	s.inLoop(func() {
		bobNumber = s.manager.GetCharacterWithName("Bob Jones").PhoneNumber()
	})

	s.send(alice, Command{Command: CmdSendText, Number: bobNumber, Body: "hi bob"})
	s.await(bob, model.EventReceiveTextMessage)
	f := s.await(alice, FrameNotification)
	s.Equal([]any{"Message sent!"}, f.Args)
}
