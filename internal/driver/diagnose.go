package driver

import (
	"errors"
	"fmt"
	"strings"

	"rame"
)

// FormatParseError renders a parse failure as
// "error: <path>:<1-based-line>: "<snippet>": <message>". For errors
// that aren't a *rame.ParseCodeError (I/O failures, or ErrNoInst) it
// falls back to "error: <path>: <message>".
func FormatParseError(path string, err error) string {
	var pe *rame.ParseCodeError
	if errors.As(err, &pe) {
		return fmt.Sprintf("error: %s:%d: %q: %s", path, pe.Line, pe.Raw, pe.Cause)
	}
	return fmt.Sprintf("error: %s: %s", path, err)
}

// FormatRunError renders a runtime failure: the 0-based Ir, the
// rendered current instruction, the error's own message, and (when
// applicable) the ACC value, the resolved register value, and a help
// line giving the word type's range for an overflow.
func FormatRunError[T rame.Int](r *rame.Ram[T], err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "error: %d: %s: %s\n", int(r.Ir()), r.Current(), err)

	if acc, ok := r.PeekRegister(0); ok {
		fmt.Fprintf(&b, "help: acc = %s\n", rame.FormatWord(acc))
	} else {
		fmt.Fprintf(&b, "help: acc = <uninit>\n")
	}

	var ru *rame.ReadUninitError
	var ia *rame.InvalidAddressRunError
	switch {
	case errors.As(err, &ru):
		fmt.Fprintf(&b, "help: register R%d = <uninit>\n", ru.Adr)
	case errors.As(err, &ia):
		if v, ok := r.PeekRegister(ia.Adr); ok {
			fmt.Fprintf(&b, "help: register R%d = %s\n", ia.Adr, rame.FormatWord(v))
		}
	}

	if errors.Is(err, rame.ErrIntegerOverflow) {
		fmt.Fprintf(&b, "help: word range is [%s, %s]\n", rame.FormatWord(rame.MinValue[T]()), rame.FormatWord(rame.MaxValue[T]()))
	}
	if errors.Is(err, rame.ErrEof) {
		fmt.Fprintf(&b, "help: missing STOP?\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
