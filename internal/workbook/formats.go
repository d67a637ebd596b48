package workbook

import "strings"

// Встроенные форматы Excel для дат.
func isDateFormat(fmtID int) bool {
	switch fmtID {
	case 14, 15, 16, 17, 22, 27, 30, 36, 45, 46, 47:
		return true
	}
	return false
}

// Пользовательский формат считается датой, если в нём есть год и день.
func isCustomDateFormat(format string) bool {
	f := strings.ToLower(format)
	return strings.Contains(f, "yy") && strings.Contains(f, "d")
}
