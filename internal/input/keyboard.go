package input

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ugaemi/cubechase/internal/game"
)

// ErrNoTerminal is returned when the keyboard source cannot open a terminal.
var ErrNoTerminal = errors.New("input: no terminal available")

// Keyboard reads a terminal keyboard as a controller:
//
//	arrows    left stick (up/down = Y, left/right = X)
//	space     recentre the stick
//	b         hold/release the boost trigger
//	p, enter  start (pause)
//	q, esc    quit
type Keyboard struct {
	screen tcell.Screen
	boost  bool

	drawMu sync.Mutex
}

// NewKeyboard opens the controlling terminal.
func NewKeyboard() (*Keyboard, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	return NewKeyboardScreen(screen)
}

// NewKeyboardScreen wraps an existing screen, such as a simulation screen.
func NewKeyboardScreen(screen tcell.Screen) (*Keyboard, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	screen.Clear()
	return &Keyboard{screen: screen}, nil
}

// Events starts polling the terminal. The stream ends on a quit key or Close.
func (k *Keyboard) Events() <-chan Event {
	raw := make(chan Event)
	go k.poll(raw)
	return Unbounded(raw)
}

// Close restores the terminal.
func (k *Keyboard) Close() {
	k.screen.Fini()
}

func (k *Keyboard) poll(raw chan<- Event) {
	defer close(raw)
	for {
		switch ev := k.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			k.screen.Sync()
		case *tcell.EventKey:
			events, quit := k.translate(ev)
			for _, e := range events {
				raw <- e
			}
			if quit {
				return
			}
		}
	}
}

// translate maps one key to controller events. quit is true for the exit keys.
func (k *Keyboard) translate(ev *tcell.EventKey) (events []Event, quit bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return nil, true
	case tcell.KeyUp:
		return []Event{AxisMoved(AxisLeftStickY, 1)}, false
	case tcell.KeyDown:
		return []Event{AxisMoved(AxisLeftStickY, -1)}, false
	case tcell.KeyLeft:
		return []Event{AxisMoved(AxisLeftStickX, -1)}, false
	case tcell.KeyRight:
		return []Event{AxisMoved(AxisLeftStickX, 1)}, false
	case tcell.KeyEnter:
		return []Event{Pressed(ButtonStart), Released(ButtonStart)}, false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return nil, true
		case ' ':
			return []Event{AxisMoved(AxisLeftStickX, 0), AxisMoved(AxisLeftStickY, 0)}, false
		case 'p':
			return []Event{Pressed(ButtonStart), Released(ButtonStart)}, false
		case 'b':
			k.boost = !k.boost
			if k.boost {
				return []Event{Pressed(ButtonRightTrigger2)}, false
			}
			return []Event{Released(ButtonRightTrigger2)}, false
		}
	}
	return nil, false
}

var statusStyles = map[game.Status]tcell.Style{
	game.StatusFine:    tcell.StyleDefault.Foreground(tcell.ColorGreen),
	game.StatusCaution: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	game.StatusDanger:  tcell.StyleDefault.Foreground(tcell.ColorRed),
	game.StatusDeath:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorRed).Bold(true),
}

// Snapshot redraws the status line.
func (k *Keyboard) Snapshot(s game.Snapshot) {
	line := fmt.Sprintf("health %3d  %-7s  hits %d", s.Health, s.Status, s.Hits)
	if s.Paused {
		line += "  [paused]"
	}
	k.draw(0, line, statusStyles[s.Status])
}

// Hit flashes a message under the status line.
func (k *Keyboard) Hit(s game.Snapshot) {
	k.draw(1, fmt.Sprintf("caught! %d left", s.Health), statusStyles[game.StatusDanger])
}

// GameOver shows the final line.
func (k *Keyboard) GameOver(s game.Snapshot) {
	k.draw(1, fmt.Sprintf("game over after %d hits, press q", s.Hits), statusStyles[game.StatusDeath])
}

func (k *Keyboard) draw(row int, text string, style tcell.Style) {
	k.drawMu.Lock()
	defer k.drawMu.Unlock()

	w, _ := k.screen.Size()
	for x := 0; x < w; x++ {
		k.screen.SetContent(x, row, ' ', nil, tcell.StyleDefault)
	}
	for x, r := range []rune(text) {
		if x >= w {
			break
		}
		k.screen.SetContent(x, row, r, nil, style)
	}
	k.screen.Show()
}
