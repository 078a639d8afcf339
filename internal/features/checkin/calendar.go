// Package checkin — calendar.go определяет «логический день» и
// классификацию соседства календарных дат.
//
// Соседство дат считается полной календарной арифметикой (AddDate),
// а не сравнением номеров дней месяца: 31 января → 1 февраля — это
// следующий день, хотя номер дня уменьшился.
package checkin

import "time"

// LogicalDay — логический день чекина: календарная дата (полночь в поясе
// приложения) и час суток. Час нужен только для выбора приветствия.
type LogicalDay struct {
	Date time.Time
	Hour int
}

// DateString возвращает дату в формате YYYY-MM-DD.
func (d LogicalDay) DateString() string {
	return d.Date.Format("2006-01-02")
}

// Today возвращает текущий логический день в поясе loc.
func Today(loc *time.Location) LogicalDay {
	if loc == nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	return LogicalDay{
		Date: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc),
		Hour: now.Hour(),
	}
}

// DayRelation — отношение текущей даты к дате последнего чекина.
type DayRelation int

const (
	// RelNone — записи ещё нет (первый чекин аккаунта)
	RelNone DayRelation = iota
	// RelSame — тот же календарный день
	RelSame
	// RelNext — ровно следующий календарный день
	RelNext
	// RelGap — разрыв больше одного дня (или дата в прошлом относительно last)
	RelGap
)

// Classify сравнивает дату последнего чекина с текущей.
// last == nil означает отсутствие записи (RelNone).
// current < last не должно случаться при исправных часах, но классифицируется
// как RelGap, а не падает.
func Classify(last *time.Time, current time.Time) DayRelation {
	if last == nil {
		return RelNone
	}

	lastDay := truncateToDay(*last)
	currentDay := truncateToDay(current)

	if sameDate(lastDay, currentDay) {
		return RelSame
	}
	if sameDate(lastDay.AddDate(0, 0, 1), currentDay) {
		return RelNext
	}
	return RelGap
}

// sameDate сравнивает только календарные даты, без учёта пояса хранения.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
