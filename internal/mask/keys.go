package mask

import "strconv"

// KeySet отвечает, занят ли ключ спрайта.
type KeySet interface {
	Has(key string) bool
}

// NextKey возвращает первый десятичный ключ >= start, которого нет в keys.
// Вызывающий обязан занять ключ до следующего вызова.
func NextKey(keys KeySet, start int) string {
	if start < 0 {
		start = 0
	}
	for n := start; ; n++ {
		key := strconv.Itoa(n)
		if !keys.Has(key) {
			return key
		}
	}
}
