package service

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Anonymizer deriva referencias estables y no reversibles (blake2b con clave)
// para ids de sesion e IPs antes de que salgan del proceso.
type Anonymizer struct {
	key []byte
}

func NewAnonymizer(secret string) *Anonymizer {
	// blake2b acepta claves de hasta 64 bytes; se normaliza a 32.
	sum := blake2b.Sum256([]byte(secret))
	return &Anonymizer{key: sum[:]}
}

func (a *Anonymizer) Ref(value string) string {
	h, err := blake2b.New256(a.key)
	if err != nil {
		// Solo falla con claves > 64 bytes, imposible tras la normalizacion.
		panic(err)
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
