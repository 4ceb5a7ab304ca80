package console

import (
	"time"
)

type Subscription struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	Domain      string    `gorm:"column:domain;type:varchar(255);not null"`
	Edition     string    `gorm:"column:edition;type:varchar(255);not null"`
	ExpiredAt   time.Time `gorm:"column:expiredAt;not null"`
	CustomerID  *int      `gorm:"column:customerId"`
	Deactivated int8      `gorm:"column:deactivated;not null"` // TINYINT(3)
	// PayrollEmail overrides the customer email for timecard reports.
	PayrollEmail *string `gorm:"column:payrollEmail"`

	Customer Customer `gorm:"foreignKey:CustomerID;references:ID"`
}

// Active reports whether the subscription is neither deactivated nor expired at now.
func (s Subscription) Active(now time.Time) bool {
	return s.Deactivated == 0 && now.Before(s.ExpiredAt)
}
