package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpserver-go/internal/model"
	"github.com/mcoot/rpserver-go/internal/testutil"
)

func nextFrame(t *testing.T, a *Actor) Frame {
	t.Helper()
	select {
	case data := <-a.send:
		var f Frame
		require.NoError(t, json.Unmarshal(data, &f))
		return f
	default:
		t.Fatal("no frame queued")
		return Frame{}
	}
}

func TestActorMirrorsStateAsFrames(t *testing.T) {
	a := newActor("ws-1", "alice", testutil.NopLogger())

	a.SetPosition(model.Vector3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, model.Vector3{X: 1, Y: 2, Z: 3}, a.Position())
	f := nextFrame(t, a)
	assert.Equal(t, FramePosition, f.Event)
	assert.Equal(t, []any{map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}}, f.Args)

	a.SendNotification("hello")
	f = nextFrame(t, a)
	assert.Equal(t, Frame{Event: FrameNotification, Args: []any{"hello"}}, f)

	a.StopAnimation()
	f = nextFrame(t, a)
	assert.Equal(t, Frame{Event: FrameStopAnimation, Args: []any{}}, f)
}

func TestActorApplyState(t *testing.T) {
	a := newActor("ws-1", "alice", testutil.NopLogger())
	assert.Equal(t, model.DriverSeat, a.Vehicle().Seat)

	a.applyState(Command{
		Command:  CmdState,
		Position: &model.Vector3{X: 5},
		Flags:    &model.ActorFlags{Aiming: true},
	})
	assert.Equal(t, 5.0, a.Position().X)
	assert.True(t, a.Flags().Busy())
	assert.False(t, a.Vehicle().InVehicle)
	assert.Empty(t, a.send)
}

func TestActorIgnoresCallsAfterClose(t *testing.T) {
	a := newActor("ws-1", "alice", testutil.NopLogger())
	a.close()
	a.close()

	assert.NotPanics(t, func() {
		a.SendChatMessage("late")
		a.TriggerEvent(model.EventUpdateMoney, "10")
	})
}

func TestActorDropsFramesWhenBufferFull(t *testing.T) {
	a := newActor("ws-1", "alice", testutil.NopLogger())
	for range sendBuffer + 10 {
		a.SendNotification("spam")
	}
	assert.Len(t, a.send, sendBuffer)
}
