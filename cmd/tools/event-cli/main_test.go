package main

import (
	"testing"
	"time"

	"github.com/annel0/masonry/internal/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	assert.Nil(t, parseStringList(""))
	assert.Equal(t, []string{"unitPlaced", "jointCreated"}, parseStringList(" unitPlaced, ,jointCreated "))
}

func TestFormatEvent(t *testing.T) {
	ev, err := eventbus.NewEnvelope(eventbus.EventJointCreated, "engine", eventbus.UnitPayload{
		ID: "j1", Type: "joint", SubType: "M65", ParentID: "b1", Orientation: "horizontal",
	})
	require.NoError(t, err)
	ev.Timestamp = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "[12:00:00.000] jointCreated  joint M65 j1 parent=b1 horizontal", formatEvent(ev))

	scene, err := eventbus.NewEnvelope(eventbus.EventSceneLoaded, "engine", eventbus.ScenePayload{Units: 3})
	require.NoError(t, err)
	scene.Timestamp = ev.Timestamp
	assert.Contains(t, formatEvent(scene), `src=engine {"units":3,"moved":0,"relinked":0}`)
}
