package forecastapp

import (
	"fmt"
	"strconv"

	"github.com/tunecast/tunecast/internal/canvas"
	"github.com/tunecast/tunecast/internal/geom"
	"github.com/tunecast/tunecast/internal/ui"
	"github.com/tunecast/tunecast/internal/weather"
)

const (
	width  = ui.WindowWidth
	height = ui.WindowHeight
)

func (m Model) View() string {
	c := canvas.New(width, height)
	c.SetNoColor(m.noColor)
	m.draw(c)
	return c.Render()
}

func (m Model) draw(c *canvas.Canvas) {
	scheme := m.themes.Current()
	text := canvas.TextStyle{Color: scheme.Foreground}
	title := canvas.TextStyle{Color: scheme.Foreground, Bold: true}

	c.Fill(geom.Rect(0, 0, width, height), scheme.Background, layerBackground)
	c.Text(10, 10, "Date: "+m.now.Format("2006-01-02"), text, layerMiddle)

	c.Fill(ui.ButtonRect, ui.ButtonColor, layerMiddle)
	c.TextRel(ui.ButtonRect.LeftX+ui.ButtonWidth/2, ui.ButtonHeight/2+10, "Toggle", 0.5, 0.5, text, layerTop)

	c.TextRel(width/2, height/2-110, m.now.Format("Monday, 15:04:05"), 0.5, 0.5, text, layerMiddle)
	if loc := m.svc.Location(); loc != nil {
		c.TextRel(width/2, height/2-80, loc.String(), 0.5, 0.5, title, layerMiddle)
	}
	if m.icon != nil {
		c.Sprite(m.iconAt, m.icon, layerMiddle)
	}

	if w := m.svc.Weather(); w != nil {
		c.TextRel(width/2, height/2+70, Temperature(*w), 0.5, 0.5, title, layerMiddle)
		c.TextRel(width/2, height/2+100, w.Summary(), 0.5, 0.5, text, layerMiddle)
		c.Text(10, height-30, "Humidity: "+number(w.Humidity)+"%", text, layerMiddle)
		c.TextRel(width/2, height-30, "Wind: "+number(w.WindSpeed)+"m/s", 0.5, 0, text, layerMiddle)
		c.TextRel(width-10, height-30, "Pressure: "+number(w.Pressure)+"hPa", 1, 0, text, layerMiddle)
	}

	if m.errorMsg != "" {
		c.TextRel(width/2, height-60, m.errorMsg, 0.5, 0, canvas.TextStyle{Color: ui.ErrorColor, Bold: true}, layerTop)
	}
}

// Temperature formats the Kelvin reading in Celsius with one decimal.
func Temperature(w weather.Weather) string {
	return fmt.Sprintf("%s°C", strconv.FormatFloat(w.Celsius(), 'f', 1, 64))
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
