package randstr

import (
	"crypto/rand"
	"math/big"
)

type Generator struct {
	letters []byte
}

func New(letters []byte) *Generator {
	return &Generator{letters: letters}
}

func (g *Generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(g.letters)))
	for i := range b {
		n, _ := rand.Int(rand.Reader, max)
		b[i] = g.letters[n.Int64()]
	}

	return string(b)
}
