package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/librescoot/ledshield/internal/app"
)

const ledWidth = 6

var base = map[string][3]int32{
	"red":    {255, 0, 0},
	"green":  {0, 255, 0},
	"blue":   {0, 0, 255},
	"yellow": {255, 200, 0},
	"white":  {255, 255, 255},
}

// ledColor scales the LED's base color by its output
func ledColor(name string, value uint8) tcell.Color {
	rgb, ok := base[name]
	if !ok {
		rgb = base["white"]
	}
	v := int32(value)
	return tcell.NewRGBColor(rgb[0]*v/255, rgb[1]*v/255, rgb[2]*v/255)
}

// Render draws the LEDs with their current outputs and the program status
func (s *Shield) Render(st app.Status) {
	s.screen.Clear()

	plain := tcell.StyleDefault
	s.text(0, 0, plain, "LED shield")
	s.text(0, 1, plain, fmt.Sprintf("state: %-14s pot: %4d  level: %3d", st.State, s.AnalogRead(s.layout.Pot), st.Intensity))

	for i, l := range s.layout.LEDs {
		out := s.Output(l.Pin)
		style := plain.Background(ledColor(l.Color, out))
		x := i * (ledWidth + 2)
		for dx := 0; dx < ledWidth; dx++ {
			s.screen.SetContent(x+dx, 3, ' ', nil, style)
			s.screen.SetContent(x+dx, 4, ' ', nil, style)
		}
		s.text(x, 5, plain, fmt.Sprintf("%3d", out))
	}

	s.text(0, 7, plain, fmt.Sprintf("serial> %s", st.Serial))
	s.text(0, 9, plain, "keys: 1-9 buttons  +/- pot  type a command and Enter  Esc quits")
	s.screen.Show()
}

func (s *Shield) text(x, y int, style tcell.Style, str string) {
	for _, r := range str {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
