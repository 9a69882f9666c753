package term

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// makeStdinRaw puts stdin into raw mode and returns the previous
// settings so they can be restored.
func makeStdinRaw() (*unix.Termios, error) {
	fd := int(os.Stdin.Fd())

	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	old := *termios

	// This attempts to replicate the behaviour documented for cfmakeraw in
	// the termios(3) manpage.
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag &^= unix.CSIZE | unix.PARENB
	termios.Cflag |= unix.CS8
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return nil, err
	}

	return &old, nil
}

// CaptureStdin switches the terminal to raw mode and calls onRune for
// every rune typed. The returned function restores the terminal.
func CaptureStdin(onRune func(rune)) (restore func() error, err error) {
	old, err := makeStdinRaw()
	if err != nil {
		return nil, err
	}

	go ReadRunes(os.Stdin, onRune)

	return func() error {
		return unix.IoctlSetTermios(int(os.Stdin.Fd()), ioctlWriteTermios, old)
	}, nil
}

// ReadRunes calls onRune for each rune read from r until EOF or a read
// error.
func ReadRunes(r io.Reader, onRune func(rune)) {
	reader := bufio.NewReader(r)
	for {
		c, _, err := reader.ReadRune()
		if err != nil {
			return
		}
		onRune(c)
	}
}
