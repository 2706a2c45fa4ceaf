package ui

import (
	"fmt"
	"strings"

	"echogrid/internal/audio"
)

// ChannelView is the render-side view of an audio channel.
type ChannelView struct {
	DeviceID string
	SourceID string
	Playing  bool
	Enabled  bool
	Params   audio.Params
	HasQueue bool // a pending parameter set awaits the next completion
}

// RenderChannelList renders the audio panel: one entry per channel showing
// state, source, and the active playback parameters.
func RenderChannelList(channels []ChannelView, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 2 {
		innerH = 2
	}

	lines := []string{
		StylePanelTitle.Render("AUDIO"),
		StyleGridCircle.Render(strings.Repeat("-", innerW)),
	}

	if len(channels) == 0 {
		lines = append(lines, StyleHelp.Render(" Waiting for samples"))
	}

	for _, ch := range channels {
		state := "idle"
		sty := StyleChannelIdle
		switch {
		case !ch.Enabled:
			state = "off"
			sty = StyleChannelOff
		case ch.Playing:
			state = "play"
			sty = StyleChannelPlaying
		}

		queued := " "
		if ch.HasQueue {
			queued = "+"
		}

		source := ch.SourceID
		if source == "" {
			source = "-"
		}

		lines = append(lines,
			sty.Render(fmt.Sprintf(" %-4s [%-4s]%s %s", ch.DeviceID, state, queued, source)))
		if ch.Playing {
			lines = append(lines, StyleSensorDetail.Render(
				fmt.Sprintf("      vol %.2f  pit %.2f", ch.Params.Volume, ch.Params.Pitch)))
			lines = append(lines, StyleSensorDetail.Render(
				fmt.Sprintf("      lpf %.0fHz rev %.2f", ch.Params.FilterCutoff, ch.Params.ReverbMix)))
		}
	}

	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
	return clampHeight(rendered, height)
}
