package random

import "math/rand"

// Alphabet — допустимые символы кода ссылки
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewRandomString генерирует случайную строку заданной длины из Alphabet.
// Равномерная посимвольная выборка; криптографическая стойкость не требуется.
func NewRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = Alphabet[rand.Intn(len(Alphabet))]
	}
	return string(b)
}
