package handler

import (
	"time"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func employeeView(e domain.Employee) map[string]any {
	return map[string]any{
		"id":        e.ID,
		"name":      e.Name,
		"branchId":  e.BranchID,
		"role":      e.Role,
		"active":    e.Active,
		"createdAt": e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func serviceView(s domain.Service) map[string]any {
	return map[string]any{
		"id":    s.ID,
		"name":  s.Name,
		"price": s.Price,
	}
}

func shiftView(s domain.Shift) map[string]any {
	return map[string]any{
		"id":         s.ID,
		"employeeId": s.EmployeeID,
		"startedAt":  s.StartedAt.UTC().Format(time.RFC3339),
		"endedAt":    timeOrNil(s.EndedAt),
		"active":     s.Active,
	}
}

func orderView(o domain.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"serviceId": it.ServiceID,
			"name":      it.Name,
			"price":     it.Price,
		})
	}
	var payment any
	if o.PaymentType != nil {
		payment = *o.PaymentType
	}
	return map[string]any{
		"id":                o.ID,
		"employeeId":        o.EmployeeID,
		"branchId":          o.BranchID,
		"clientName":        o.ClientName,
		"clientPhone":       o.ClientPhone,
		"status":            o.Status,
		"paymentType":       payment,
		"paymentStatus":     o.PaymentStatus,
		"notProvidedReason": o.NotProvidedReason,
		"createdAt":         o.CreatedAt.UTC().Format(time.RFC3339),
		"completedAt":       timeOrNil(o.CompletedAt),
		"services":          items,
		"amount":            o.Amount(),
	}
}
