package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SumCharges sums the amounts of a fee structure.
func SumCharges(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// FormatReceiptNumber formats a receipt number: RCP<year><6-digit sequence>.
func FormatReceiptNumber(year int, sequence int64) string {
	return fmt.Sprintf("RCP%d%06d", year, sequence)
}

// FormatStudentNumber formats a student identifier: STU<year><4-digit sequence>.
func FormatStudentNumber(year int, sequence int64) string {
	return fmt.Sprintf("STU%d%04d", year, sequence)
}

// FormatTeacherNumber formats a teacher identifier: TCH<year><4-digit sequence>.
func FormatTeacherNumber(year int, sequence int64) string {
	return fmt.Sprintf("TCH%d%04d", year, sequence)
}

// CalculatePercentage calculates marks obtained over total marks as a
// percentage rounded to 2 decimal places.
func CalculatePercentage(marksObtained, totalMarks decimal.Decimal) decimal.Decimal {
	if totalMarks.IsZero() {
		return decimal.Zero
	}
	return marksObtained.Div(totalMarks).Mul(decimal.NewFromInt(100)).Round(2)
}

// CalculateGrade maps a percentage to a letter grade using fixed thresholds.
func CalculateGrade(percentage decimal.Decimal) string {
	p := percentage.InexactFloat64()
	switch {
	case p >= 90:
		return "A+"
	case p >= 80:
		return "A"
	case p >= 70:
		return "B+"
	case p >= 60:
		return "B"
	case p >= 50:
		return "C"
	case p >= 40:
		return "D"
	default:
		return "F"
	}
}

// AttendanceRate calculates present records over total records as a
// percentage rounded to 2 decimal places, zero when there are no records.
func AttendanceRate(present, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(present)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// TruncateToDay strips the time-of-day part so attendance dates compare by day.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsDateOverdue checks if a date is overdue (past current date)
func IsDateOverdue(dueDate time.Time) bool {
	return time.Now().After(dueDate)
}
