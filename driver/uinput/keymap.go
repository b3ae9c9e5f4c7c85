package uinput

// Key codes from linux/input-event-codes.h.
const (
	KeyEsc       = 1
	KeyBackspace = 14
	KeyTab       = 15
	KeyEnter     = 28
	KeyLeftCtrl  = 29
	KeyLeftShift = 42
	KeyLeftAlt   = 56
	KeySpace     = 57
	KeyHome      = 102
	KeyUp        = 103
	KeyPageUp    = 104
	KeyLeft      = 105
	KeyRight     = 106
	KeyEnd       = 107
	KeyDown      = 108
	KeyPageDown  = 109
)

// Keycode resolves a KEY_* name from linux/input-event-codes.h.
func Keycode(name string) (uint16, bool) {
	c, ok := keycodes[name]
	return c, ok
}

var keycodes = map[string]uint16{
	"KEY_ESC":       KeyEsc,
	"KEY_BACKSPACE": KeyBackspace,
	"KEY_TAB":       KeyTab,
	"KEY_ENTER":     KeyEnter,
	"KEY_LEFTCTRL":  KeyLeftCtrl,
	"KEY_LEFTSHIFT": KeyLeftShift,
	"KEY_LEFTALT":   KeyLeftAlt,
	"KEY_SPACE":     KeySpace,
	"KEY_HOME":      KeyHome,
	"KEY_UP":        KeyUp,
	"KEY_PAGEUP":    KeyPageUp,
	"KEY_LEFT":      KeyLeft,
	"KEY_RIGHT":     KeyRight,
	"KEY_END":       KeyEnd,
	"KEY_DOWN":      KeyDown,
	"KEY_PAGEDOWN":  KeyPageDown,

	"KEY_Q": 16, "KEY_W": 17, "KEY_E": 18, "KEY_R": 19, "KEY_T": 20,
	"KEY_Y": 21, "KEY_U": 22, "KEY_I": 23, "KEY_O": 24, "KEY_P": 25,
	"KEY_A": 30, "KEY_S": 31, "KEY_D": 32, "KEY_F": 33, "KEY_G": 34,
	"KEY_H": 35, "KEY_J": 36, "KEY_K": 37, "KEY_L": 38,
	"KEY_Z": 44, "KEY_X": 45, "KEY_C": 46, "KEY_V": 47, "KEY_B": 48,
	"KEY_N": 49, "KEY_M": 50,
}
