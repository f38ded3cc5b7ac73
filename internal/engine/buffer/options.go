package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithLF sets Unix-style line endings.
func WithLF() Option {
	return WithLineEnding(LineEndingLF)
}

// WithCRLF sets Windows-style line endings.
func WithCRLF() Option {
	return WithLineEnding(LineEndingCRLF)
}
