package relocate

import "fmt"

// Mode selects which parts of a relocation are applied.
type Mode int

const (
	RenameOnly    Mode = iota + 1 // New token name, same directory.
	MoveOnly                      // Same name, YYYY-MM-DD subdirectory.
	RenameAndMove                 // Both.
)

// Renames reports whether m gives files a token name.
func (m Mode) Renames() bool { return m == RenameOnly || m == RenameAndMove }

// Moves reports whether m files into a day directory.
func (m Mode) Moves() bool { return m == MoveOnly || m == RenameAndMove }

// String returns the command-line name of m.
func (m Mode) String() string {
	switch m {
	case RenameOnly:
		return "rename"
	case MoveOnly:
		return "move"
	case RenameAndMove:
		return "rename-move"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ModeNames lists the command-line names of every mode.
var ModeNames = []string{RenameOnly.String(), MoveOnly.String(), RenameAndMove.String()}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{RenameOnly, MoveOnly, RenameAndMove} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("relocate: unknown mode %q (use rename, move or rename-move)", s)
}
