package textsdf

import "golang.org/x/image/font/gofont/goregular"

// GoRegularTTF returns the Go Regular true type font file.
func GoRegularTTF() []byte {
	return append([]byte{}, goregular.TTF...) // copy contents.
}
