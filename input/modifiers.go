package input

// ModifiersState is the decoded keyboard modifier state attached to key
// events, with the serialized form the protocol layer forwards to
// clients.
type ModifiersState struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Logo  bool

	Serialized SerializedMods
}

// SerializedMods is the wire representation of modifier state.
// Only depressed modifiers are tracked here; latched and locked state
// belongs to the keymap layer above this backend.
type SerializedMods struct {
	Depressed uint32
	Latched   uint32
	Locked    uint32
	Group     uint32
}

// Bit positions in SerializedMods.Depressed, matching the Modifier mask.
const (
	serShift = 1 << 0
	serCtrl  = 1 << 1
	serAlt   = 1 << 2
	serLogo  = 1 << 3
)

// modifiersFromMask decodes a host modifier mask.
func modifiersFromMask(held Modifier) ModifiersState {
	m := ModifiersState{
		Shift: held&ModShift != 0,
		Ctrl:  held&ModCtrl != 0,
		Alt:   held&ModAlt != 0,
		Logo:  held&ModLogo != 0,
	}
	if m.Shift {
		m.Serialized.Depressed |= serShift
	}
	if m.Ctrl {
		m.Serialized.Depressed |= serCtrl
	}
	if m.Alt {
		m.Serialized.Depressed |= serAlt
	}
	if m.Logo {
		m.Serialized.Depressed |= serLogo
	}
	return m
}
