package timecard

// Persisted records name the same attribute differently depending on which
// client wrote them. Each resolver below is the only place its fallback order
// is defined; exporters call these instead of reading the raw fields.

// ResolvedEmployeeCode is employeeCode, then employeeId, then employeeNumber.
func (t Timecard) ResolvedEmployeeCode() string {
	return firstNonEmpty(t.EmployeeCode, t.EmployeeID, t.EmployeeNumber)
}

// ResolvedArea is area, then subsectionArea.
func (l Line) ResolvedArea() string {
	return firstNonEmpty(l.Area, l.SubsectionArea)
}

// ResolvedAccount is account, then acct.
func (l Line) ResolvedAccount() string {
	return firstNonEmpty(l.Account, l.Acct)
}

// ResolvedCostCode is costCode, then difC.
func (l Line) ResolvedCostCode() string {
	return firstNonEmpty(l.CostCode, l.DifC)
}

// ResolvedAccount on a legacy job prefers acct over account.
func (j LegacyJob) ResolvedAccount() string {
	return firstNonEmpty(j.Acct, j.Account)
}

// ResolvedCostCode is costCode, then difC.
func (j LegacyJob) ResolvedCostCode() string {
	return firstNonEmpty(j.CostCode, j.DifC)
}
