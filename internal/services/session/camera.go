package session

import "github.com/mcoot/rpserver-go/internal/model"

const (
	loginDimension = 1
	worldDimension = 0
)

func startCameraPositions() []model.CameraPosition {
	return []model.CameraPosition{
		{Position: model.Vector3{X: -1136.09, Y: -58.34853, Z: 44.20825}, Rotation: model.Vector3{Z: -134.8262}},
		{Position: model.Vector3{X: 3346.998, Y: 5183.969, Z: 15.35839}, Rotation: model.Vector3{Z: -86.46388}},
		{Position: model.Vector3{X: 465.9247, Y: 5594.497, Z: 781.0376}, Rotation: model.Vector3{Z: 13.70422}},
		{Position: model.Vector3{X: -545.1541, Y: 4471.583, Z: 60.59504}, Rotation: model.Vector3{Z: 112.1356}},
	}
}

// setStartCameraMode parks the actor at a random login camera, hidden and
// frozen, or releases it back into the world
func (m *Manager) setStartCameraMode(actor model.Actor, on bool) {
	if !on {
		actor.SetDimension(worldDimension)
		actor.SetTransparency(255)
		actor.FreezePosition(false)
		actor.TriggerEvent(model.EventRemoveCamera)
		return
	}

	cam := m.cameras[m.random.Intn(len(m.cameras))]
	actor.SetPosition(cam.Position)
	actor.SetRotation(cam.Rotation)
	actor.SetDimension(loginDimension)
	actor.SetTransparency(0)
	actor.FreezePosition(true)
	actor.TriggerEvent(model.EventSetLoginScreenCamera, cam.Position, cam.Rotation)
}
