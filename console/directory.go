package console

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobtrack.com/jobtrack/utils"
)

func FindSubscriptionByDomain(db *gorm.DB, domain string) (*Subscription, error) {
	var sub Subscription
	err := db.Where(&Subscription{Domain: domain}).Preload("Customer").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	return &sub, err
}

// Directory resolves the payroll recipients of a tenant domain.
type Directory struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db, now: time.Now}
}

// Recipients returns nothing for unknown, deactivated or expired tenants.
func (d *Directory) Recipients(ctx context.Context, tenant string) ([]string, error) {
	sub, err := FindSubscriptionByDomain(d.db.WithContext(ctx), tenant)
	if err != nil {
		return nil, err
	}
	return recipientsFor(sub, d.now()), nil
}

func recipientsFor(sub *Subscription, now time.Time) []string {
	if sub == nil || !sub.Active(now) {
		return nil
	}
	email := utils.OrDefault(utils.Deref(sub.PayrollEmail), sub.Customer.Email)
	// payroll addresses are stored comma separated
	parts := utils.Map(strings.Split(email, ","), strings.TrimSpace)
	return utils.Filter(parts, func(s string) bool { return s != "" })
}
