package musicapp

import (
	"github.com/tunecast/tunecast/internal/canvas"
	"github.com/tunecast/tunecast/internal/geom"
	"github.com/tunecast/tunecast/internal/ui"
)

const statusY = WindowHeight - canvas.CellHeight

func (m Model) View() string {
	c := canvas.New(WindowWidth, WindowHeight)
	c.SetNoColor(m.noColor)
	m.draw(c)
	return c.Render()
}

func (m Model) draw(c *canvas.Canvas) {
	c.HGradient(ui.TopColor, ui.BottomColor, layerBackground)

	albums := m.seq.Albums()
	for i, a := range albums {
		c.Sprite(a.Artwork.Dim, m.sprites[i], layerPlayer)
	}

	if sel := m.seq.Album(); sel >= 0 {
		tracks := albums[sel].Tracks
		for _, t := range tracks {
			c.Text(t.Dim.LeftX, t.Dim.TopY, t.Name, canvas.TextStyle{Color: ui.TrackColor}, layerPlayer)
		}
		if i := m.seq.Track(); i >= 0 && i < len(tracks) {
			var font canvas.Font
			d := tracks[i].Dim
			c.Fill(geom.Rect(d.LeftX-15, d.TopY, 5, font.Height()), ui.MarkerColor, layerPlayer)
		}
	}

	m.drawStatus(c)
}

func (m Model) drawStatus(c *canvas.Canvas) {
	bold := canvas.TextStyle{Color: ui.StatusColor, Bold: true}
	switch {
	case m.errorMsg != "":
		c.Text(10, statusY, m.errorMsg, canvas.TextStyle{Color: ui.ErrorColor, Bold: true}, layerUI)
	case m.nowPlaying() != "":
		c.Text(10, statusY, "♪ "+m.nowPlaying(), bold, layerUI)
	default:
		c.Text(10, statusY, "Click an album to play it", canvas.TextStyle{Color: ui.StatusColor}, layerUI)
	}
	c.TextRel(WindowWidth-10, statusY, "q quit", 1, 0, canvas.TextStyle{Color: ui.StatusColor}, layerUI)
}
