package domain

// Action is an operation checked by the authorization guard.
type Action string

const (
	ActionCreate       Action = "create"
	ActionMerchantEdit Action = "merchantEdit"
	ActionModerate     Action = "moderate" // approve / reject / forceOffline / restore
	ActionRead         Action = "read"
)

// Authorize decides whether caller may perform action on hotel. It runs
// strictly before any lifecycle logic, so a denied request observes no partial
// state change. hotel may be nil for ActionCreate.
//
// Rules, in order: admins moderate and read anything; merchants create and
// edit only rows they own; everyone else reads published rows only.
func Authorize(caller Identity, action Action, hotel *Hotel) error {
	if caller.Role == RoleAdmin {
		switch action {
		case ActionModerate, ActionRead:
			return nil
		}
		return ErrForbidden
	}

	if caller.Role == RoleMerchant && caller.UserID != 0 {
		switch action {
		case ActionCreate:
			return nil
		case ActionMerchantEdit:
			if hotel != nil && hotel.MerchantID == caller.UserID {
				return nil
			}
			return ErrForbidden
		case ActionRead:
			if hotel == nil || hotel.MerchantID == caller.UserID || hotel.Status == StatusPublished {
				return nil
			}
			return ErrForbidden
		}
		return ErrForbidden
	}

	// Anonymous visitors and plain users: published reads only.
	if action == ActionRead && hotel != nil && hotel.Status == StatusPublished {
		return nil
	}
	return ErrForbidden
}
