// Package age вычисляет возраст и возрастные группы.
//
// В пакете два разных определения возраста: Derive считает полные годы по
// календарю, CoarseAge вычитает только годы. Отчёт по участникам использует
// первое, отбор молодёжи в посещаемости второе; результаты могут
// расходиться около дня рождения.
package age

import (
	"time"

	"github.com/ryabkov82/clubstats/internal/apperr"
)

const DateLayout = "2006-01-02"

// YouthMaxAge верхняя граница (включительно) для CoarseAge.
const YouthMaxAge = 16

// ParseBirthDate разбирает строку строго в формате YYYY-MM-DD.
func ParseBirthDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Newf(apperr.CodeParse, "дата рождения %q не в формате ГГГГ-ММ-ДД", s)
	}
	return t, nil
}

// Derive возвращает число полных лет на дату ref.
func Derive(birth string, ref time.Time) (int, error) {
	b, err := ParseBirthDate(birth)
	if err != nil {
		return 0, err
	}
	return Between(b, ref), nil
}

func Between(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	return years
}

// CoarseAge считает возраст только по годам, без учёта месяца и дня.
func CoarseAge(refYear, birthYear int) int {
	return refYear - birthYear
}

func IsYouth(refYear, birthYear, maxAge int) bool {
	return CoarseAge(refYear, birthYear) <= maxAge
}
