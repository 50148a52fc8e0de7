package shield

import "strings"

// MaxCommandLen bounds a single serial command line
const MaxCommandLen = 64

// UART assembles serial input into newline-terminated state demands
type UART struct {
	Demanded string
	Active   bool

	buf      []byte
	overflow bool
}

// Feed appends one received byte. A '\n' completes the line; '\r' is
// ignored. A line longer than MaxCommandLen is discarded whole.
func (u *UART) Feed(b byte) {
	switch b {
	case '\r':
		return
	case '\n':
		line := strings.TrimSpace(string(u.buf))
		overflow := u.overflow
		u.buf = u.buf[:0]
		u.overflow = false
		if overflow || line == "" {
			return
		}
		u.Demanded = line
		u.Active = true
		return
	}

	if u.overflow {
		return
	}
	if len(u.buf) >= MaxCommandLen {
		u.overflow = true
		u.buf = u.buf[:0]
		return
	}
	u.buf = append(u.buf, b)
}

// Write feeds every byte of p, so a UART can sit behind an io.Writer
func (u *UART) Write(p []byte) (int, error) {
	for _, b := range p {
		u.Feed(b)
	}
	return len(p), nil
}

// Take returns the pending demand, if any, and clears it
func (u *UART) Take() (string, bool) {
	if !u.Active {
		return "", false
	}
	d := u.Demanded
	u.Demanded = ""
	u.Active = false
	return d, true
}

// Partial returns the bytes received since the last completed line
func (u *UART) Partial() string {
	return string(u.buf)
}
