// Package policy is the single authorization decision point: every ownership
// or role check the handlers need goes through Can. Admins bypass ownership.
package policy

import (
	"marketplace-service/errs"
	"marketplace-service/models"
)

type Action string

const (
	ProductUpdate     Action = "product:update"
	ProductDelete     Action = "product:delete"
	OrderRead         Action = "order:read"
	OrderUpdateStatus Action = "order:update_status"
	UserManage        Action = "user:manage"
)

// Can decides whether actor may perform action on resource. It returns nil
// to allow, or an Unauthorized error to deny.
func Can(actor models.User, action Action, resource any) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}

	switch action {
	case ProductUpdate, ProductDelete:
		product, ok := resource.(models.Product)
		if !ok {
			return deny()
		}
		if actor.Role == models.RoleVendor && product.VendorID == actor.ID {
			return nil
		}
	case OrderRead:
		order, ok := resource.(models.Order)
		if !ok {
			return deny()
		}
		if actor.Role == models.RoleCustomer && order.CustomerID == actor.ID {
			return nil
		}
		if actor.Role == models.RoleVendor && vendorHasItems(actor.ID, order) {
			return nil
		}
	case OrderUpdateStatus:
		order, ok := resource.(models.Order)
		if !ok {
			return deny()
		}
		if actor.Role == models.RoleVendor && vendorHasItems(actor.ID, order) {
			return nil
		}
	case UserManage:
		// admin only, handled above
	}
	return deny()
}

func vendorHasItems(vendorID int64, order models.Order) bool {
	for _, item := range order.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}

func deny() error {
	return errs.Unauthorizedf("not authorized to perform this action")
}
