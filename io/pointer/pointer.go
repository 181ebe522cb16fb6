// SPDX-License-Identifier: Unlicense OR MIT

// Package pointer defines the mouse buttons reported in pointer
// events.
package pointer

// Buttons is a set of mouse buttons.
type Buttons uint8

const (
	// ButtonPrimary is the primary button, usually the left button for a
	// right-handed user.
	ButtonPrimary Buttons = 1 << iota
	// ButtonSecondary is the secondary button, usually the right button for a
	// right-handed user.
	ButtonSecondary
	// ButtonTertiary is the tertiary button, usually the middle button.
	ButtonTertiary
	// ButtonOther covers extra buttons the runtime does not name.
	ButtonOther
)

// Contain reports whether the set b contains
// all of the buttons.
func (b Buttons) Contain(buttons Buttons) bool {
	return b&buttons == buttons
}

func (b Buttons) String() string {
	switch b {
	case ButtonPrimary:
		return "ButtonPrimary"
	case ButtonSecondary:
		return "ButtonSecondary"
	case ButtonTertiary:
		return "ButtonTertiary"
	case ButtonOther:
		return "ButtonOther"
	case 0:
		return ""
	default:
		return "Buttons(multiple)"
	}
}
