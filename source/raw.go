package source

// rawOpener serves bare codestreams (.j2c, .j2k, .jph)
type rawOpener struct{}

func (rawOpener) Format() Format {
	return FormatJ2C
}

func (rawOpener) Open(in Input, _ Options) (*Source, error) {
	return &Source{
		r:    in.R,
		size: in.Size,
		container: Container{
			Format: FormatJ2C,
			Offset: 0,
		},
	}, nil
}
