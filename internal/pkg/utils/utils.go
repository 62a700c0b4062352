package utils

import "strconv"

// FormatTWD renders an amount as a display price, e.g. 3999 -> "NT$3,999".
func FormatTWD(amount int64) string {
	if amount == 0 {
		return "NT$0"
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	var result []byte
	str := strconv.FormatInt(amount, 10)

	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		result = append([]byte{str[i]}, result...)
		count++
		if count%3 == 0 && i != 0 {
			result = append([]byte{','}, result...)
		}
	}

	if negative {
		return "NT$-" + string(result)
	}
	return "NT$" + string(result)
}
