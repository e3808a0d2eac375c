package grammar

import "fmt"

// PluralizeYears appends the correct Russian count form of "год" to n.
// 1 год, 2 года, 5 лет, 11 лет, 21 год, 111 лет.
func PluralizeYears(n int) string {
	return fmt.Sprintf("%d %s", n, yearsWord(n))
}

func yearsWord(n int) string {
	if m := n % 100; m >= 11 && m <= 14 {
		return "лет"
	}
	switch n % 10 {
	case 1:
		return "год"
	case 2, 3, 4:
		return "года"
	default:
		return "лет"
	}
}
